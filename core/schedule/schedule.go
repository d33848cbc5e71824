// Package schedule exposes the teacher's timetable as fetched from the admin
// backend.
package schedule

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

type Period struct {
	DayOfWeek time.Weekday `json:"day_of_week"`
	StartTime string       `json:"start_time"` // "HH:MM", school-local
	EndTime   string       `json:"end_time"`
	Course    string       `json:"course"`
	Section   string       `json:"section"`
	Room      string       `json:"room"`
}

type (
	Gateway interface {
		FetchSchedule(ctx context.Context, teacherID string) ([]Period, error)
	}

	Service struct {
		gw Gateway
	}
)

func NewService(gw Gateway) *Service {
	return &Service{gw: gw}
}

func (svc *Service) Week(ctx context.Context, teacherID string) ([]Period, error) {
	return svc.gw.FetchSchedule(ctx, teacherID)
}

// Today filters the week down to the current weekday, in period order.
func (svc *Service) Today(ctx context.Context, teacherID string) ([]Period, error) {
	week, err := svc.gw.FetchSchedule(ctx, teacherID)
	if err != nil {
		return nil, errors.Wrap(err, "fetching schedule")
	}
	day := time.Now().Weekday()
	var today []Period
	for _, p := range week {
		if p.DayOfWeek == day {
			today = append(today, p)
		}
	}
	return today, nil
}
