package apiclient

import (
	"context"

	"github.com/heronix/teacherdesk/core"
)

// TalkClient talks to the HeronixTalk messaging backend. The console only
// surfaces the unread badge; conversations open in the Talk app.
type TalkClient struct {
	*client
}

func NewTalkClient(conf *core.Config, token TokenFunc) *TalkClient {
	return &TalkClient{newClient("talk", conf.Backends.Talk, conf.Backends.Timeout, token)}
}

func (c *TalkClient) UnreadCount(ctx context.Context, teacherID string) (int, error) {
	var res struct {
		Unread int `json:"unread"`
	}
	if err := c.get(ctx, "/v1/inbox/"+teacherID+"/unread", &res); err != nil {
		return 0, err
	}
	return res.Unread, nil
}
