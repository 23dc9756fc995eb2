package worker

import (
	"CaseTrack/internal/queue"
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Deliverer доставляет уведомление администратору (почта, мессенджер и т.п.).
type Deliverer interface {
	Deliver(ctx context.Context, payload queue.ContactPayload) error
}

// LogDeliverer пишет уведомление в лог. Внешней доставкой писем занимается отдельный сервис.
type LogDeliverer struct {
	Logger *zap.SugaredLogger
}

func (d LogDeliverer) Deliver(ctx context.Context, p queue.ContactPayload) error {
	d.Logger.Infow("new contact submission",
		"submission_id", p.SubmissionID,
		"name", p.Name,
		"email", p.Email,
		"subject", p.Subject,
	)
	return nil
}

// Processor is plugged into the asynq worker loop.
type Processor struct {
	deliverer Deliverer
	logger    *zap.SugaredLogger
}

// NewProcessor constructs a worker processor.
func NewProcessor(d Deliverer, logger *zap.SugaredLogger) *Processor {
	return &Processor{deliverer: d, logger: logger}
}

// Handler registers the contact job handler.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.ContactNotifyTask, p.HandleContactNotify)
	return mux
}

// HandleContactNotify декодирует задачу и передаёт её доставщику.
func (p *Processor) HandleContactNotify(ctx context.Context, task *asynq.Task) error {
	var payload queue.ContactPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		// повтор не поможет
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if err := p.deliverer.Deliver(ctx, payload); err != nil {
		p.logger.Warnw("contact delivery failed", "submission_id", payload.SubmissionID, "error", err)
		return err
	}
	return nil
}
