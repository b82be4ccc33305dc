package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/peiassist/backend/internal/domain"
	"github.com/peiassist/backend/internal/platform/logger"
)

type PeiRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Pei) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Pei, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Pei, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Pei) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type peiRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPeiRepo(db *gorm.DB, baseLog *logger.Logger) PeiRepo {
	return &peiRepo{db: db, log: baseLog.With("repo", "PeiRepo")}
}

func (r *peiRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Pei) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *peiRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Pei, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t := tx
	if t == nil {
		t = r.db
	}
	var row types.Pei
	if err := t.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *peiRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Pei, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Pei
	if err := t.WithContext(ctx).Order("updated_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *peiRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Pei) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *peiRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Where("id = ?", id).Delete(&types.Pei{}).Error
}
