package apiclient

import (
	"context"

	"github.com/heronix/teacherdesk/core"
)

// EdGamesClient talks to the EdGames grading backend. The console only pulls
// the class grade rollup for the header widget; grade entry lives in the
// EdGames app itself.
type EdGamesClient struct {
	*client
}

func NewEdGamesClient(conf *core.Config, token TokenFunc) *EdGamesClient {
	return &EdGamesClient{newClient("edgames", conf.Backends.EdGames, conf.Backends.Timeout, token)}
}

type GradeSummary struct {
	ClassID       string  `json:"class_id"`
	ClassName     string  `json:"class_name"`
	Average       float64 `json:"average"`
	MissingCount  int     `json:"missing_count"`
	UngradedCount int     `json:"ungraded_count"`
}

func (c *EdGamesClient) GradeSummaries(ctx context.Context, teacherID string) ([]GradeSummary, error) {
	var res struct {
		Summaries []GradeSummary `json:"summaries"`
	}
	if err := c.get(ctx, "/v1/teachers/"+teacherID+"/grade-summaries", &res); err != nil {
		return nil, err
	}
	return res.Summaries, nil
}
