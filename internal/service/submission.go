package service

import (
	"CaseTrack/internal/model"
	"CaseTrack/internal/queue"
	"CaseTrack/internal/repo"
	"CaseTrack/internal/validate"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmissionService — приём обращений и их разбор администратором.
type SubmissionService struct {
	repo     repo.SubmissionRepository
	notifier queue.Notifier
	logger   *zap.SugaredLogger
}

func NewSubmissionService(r repo.SubmissionRepository, n queue.Notifier, logger *zap.SugaredLogger) *SubmissionService {
	return &SubmissionService{repo: r, notifier: n, logger: logger}
}

// ContactInput — данные публичной формы обратной связи.
type ContactInput struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone"`
	Subject string  `json:"subject" validate:"required,max=300"`
	Message string  `json:"message" validate:"required,max=10000"`
}

// Submit сохраняет обращение и ставит уведомление в очередь.
// Ошибка постановки в очередь не отменяет сохранённую запись.
func (s *SubmissionService) Submit(ctx context.Context, in ContactInput) (*model.ContactSubmission, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	in.Phone = blankToNil(in.Phone)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	sub := &model.ContactSubmission{
		ID:      uuid.NewString(),
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	payload := queue.ContactPayload{
		SubmissionID: sub.ID,
		Name:         sub.Name,
		Email:        sub.Email,
		Phone:        sub.Phone,
		Subject:      sub.Subject,
		Message:      sub.Message,
	}
	if err := s.notifier.NotifyContact(ctx, payload); err != nil {
		s.logger.Errorw("contact notification not scheduled", "submission_id", sub.ID, "error", err)
	}
	return sub, nil
}

func (s *SubmissionService) List(ctx context.Context) ([]model.ContactSubmission, error) {
	return s.repo.ListSubmissions(ctx)
}

// MarkRead идемпотентен.
func (s *SubmissionService) MarkRead(ctx context.Context, id string) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *SubmissionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.logger.Infow("submission deleted", "submission_id", id)
	return nil
}
