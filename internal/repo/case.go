package repo

import (
	"CaseTrack/internal/model"
	"context"

	"gorm.io/gorm"
)

// CaseRepository — доступ к коллекции cases.
type CaseRepository interface {
	// ListCases возвращает все дела, новые сверху.
	ListCases(ctx context.Context) ([]model.Case, error)
	GetByID(ctx context.Context, id string) (*model.Case, error)
	// GetByCaseNumber ищет по точному совпадению номера. Нет записи: gorm.ErrRecordNotFound.
	GetByCaseNumber(ctx context.Context, caseNumber string) (*model.Case, error)
	Create(ctx context.Context, c *model.Case) error
	// Update применяет частичное обновление одним запросом.
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
}

type caseRepo struct {
	db *gorm.DB
}

// NewCaseRepository создаёт реализацию репозитория для Case.
func NewCaseRepository(db *gorm.DB) CaseRepository {
	return &caseRepo{db: db}
}

func (r *caseRepo) ListCases(ctx context.Context) ([]model.Case, error) {
	var list []model.Case
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *caseRepo) GetByID(ctx context.Context, id string) (*model.Case, error) {
	var c model.Case
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepo) GetByCaseNumber(ctx context.Context, caseNumber string) (*model.Case, error) {
	var c model.Case
	if err := r.db.WithContext(ctx).Where("case_number = ?", caseNumber).Take(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepo) Create(ctx context.Context, c *model.Case) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *caseRepo) Update(ctx context.Context, id string, updates map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&model.Case{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *caseRepo) Delete(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Case{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
