package discipline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/heronix/teacherdesk/core"
)

type (
	// Gateway submits incidents to the admin backend.
	Gateway interface {
		SubmitIncident(ctx context.Context, inc Incident) error
	}

	Service struct {
		gw       Gateway
		outbox   core.Outbox
		validate *validator.Validate
		log      core.Logger
	}
)

func NewService(gw Gateway, outbox core.Outbox, validate *validator.Validate, log core.Logger) *Service {
	return &Service{gw: gw, outbox: outbox, validate: validate, log: log}
}

// Submit sends the referral to the admin backend. When the backend is
// unreachable the incident is queued in the local outbox instead; queued is
// true in that case and the referral goes out on the next sync drain.
func (svc *Service) Submit(ctx context.Context, reportedBy string, ni NewIncident) (queued bool, err error) {
	if err = ni.Validate(svc.validate); err != nil {
		return false, err
	}

	inc := Incident{
		ID:                    uuid.New().String(),
		StudentID:             ni.StudentID,
		Category:              ni.Category,
		Severity:              ni.Severity,
		Location:              ni.Location,
		Description:           ni.Description,
		Intervention:          ni.Intervention,
		ParentContacted:       ni.ParentContacted,
		AdminReferralRequired: ni.AdminReferralRequired,
		ReportedBy:            reportedBy,
		OccurredAt:            time.Now().UTC(),
	}

	if err = svc.gw.SubmitIncident(ctx, inc); err != nil {
		if !core.IsUnavailable(err) {
			return false, errors.Wrap(err, "submitting incident")
		}
		if err = svc.enqueue(ctx, inc); err != nil {
			return false, err
		}
		svc.log.Warn("admin backend unreachable; incident queued", map[string]interface{}{"incident_id": inc.ID})
		return true, nil
	}
	return false, nil
}

func (svc *Service) enqueue(ctx context.Context, inc Incident) error {
	payload, err := json.Marshal(inc)
	if err != nil {
		return errors.Wrap(err, "encoding incident")
	}
	item := core.OutboxItem{
		ID:        inc.ID,
		Kind:      core.OutboxDisciplineIncident,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	return errors.Wrap(svc.outbox.Enqueue(ctx, item), "queueing incident")
}

// Replay decodes a queued incident and retries the submission. Registered
// with the sync engine as the drain handler for discipline items.
func (svc *Service) Replay(ctx context.Context, payload []byte) error {
	var inc Incident
	if err := json.Unmarshal(payload, &inc); err != nil {
		return errors.Wrap(err, "decoding queued incident")
	}
	return svc.gw.SubmitIncident(ctx, inc)
}
