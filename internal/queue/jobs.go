package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	// ContactNotifyTask ставится после сохранения каждого обращения.
	ContactNotifyTask = "contact:notify"
)

// ContactPayload is serialized into the task payload so the worker can render
// the notification without a database round trip.
type ContactPayload struct {
	SubmissionID string  `json:"submission_id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone,omitempty"`
	Subject      string  `json:"subject"`
	Message      string  `json:"message"`
}

// Notifier планирует доставку уведомления об обращении.
type Notifier interface {
	NotifyContact(ctx context.Context, payload ContactPayload) error
}

// AsynqNotifier ставит задачу в очередь asynq.
type AsynqNotifier struct {
	client *asynq.Client
}

func NewAsynqNotifier(client *asynq.Client) *AsynqNotifier {
	return &AsynqNotifier{client: client}
}

// NotifyContact enqueues a contact notification job.
func (n *AsynqNotifier) NotifyContact(ctx context.Context, payload ContactPayload) error {
	task, err := NewContactNotifyTask(payload)
	if err != nil {
		return err
	}
	if _, err := n.client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue contact task: %w", err)
	}
	return nil
}

// NewContactNotifyTask сериализует payload в задачу.
func NewContactNotifyTask(payload ContactPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(ContactNotifyTask, data), nil
}

// LogNotifier используется, когда redis не настроен: уведомление только логируется.
type LogNotifier struct {
	Logger *zap.SugaredLogger
}

func (n LogNotifier) NotifyContact(ctx context.Context, payload ContactPayload) error {
	n.Logger.Infow("contact notification (queue disabled)",
		"submission_id", payload.SubmissionID,
		"email", payload.Email,
		"subject", payload.Subject,
	)
	return nil
}
