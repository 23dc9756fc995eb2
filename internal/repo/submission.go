package repo

import (
	"CaseTrack/internal/model"
	"context"

	"gorm.io/gorm"
)

// SubmissionRepository — доступ к коллекции contact_submissions.
type SubmissionRepository interface {
	ListSubmissions(ctx context.Context) ([]model.ContactSubmission, error)
	Create(ctx context.Context, s *model.ContactSubmission) error
	// MarkRead идемпотентен: повторный вызов для прочитанной записи не ошибка.
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepository создаёт реализацию репозитория для ContactSubmission.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) ListSubmissions(ctx context.Context) ([]model.ContactSubmission, error) {
	var list []model.ContactSubmission
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *submissionRepo) Create(ctx context.Context, s *model.ContactSubmission) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *submissionRepo) MarkRead(ctx context.Context, id string) error {
	// Сначала проверяем существование: RowsAffected для уже прочитанной записи
	// зависит от СУБД.
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.ContactSubmission{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return r.db.WithContext(ctx).Model(&model.ContactSubmission{}).Where("id = ?", id).Update("is_read", true).Error
}

func (r *submissionRepo) Delete(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ContactSubmission{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
