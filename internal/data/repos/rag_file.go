package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/peiassist/backend/internal/domain"
	"github.com/peiassist/backend/internal/platform/logger"
)

type RagFileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.RagFile) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RagFile, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.RagFile, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type ragFileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRagFileRepo(db *gorm.DB, baseLog *logger.Logger) RagFileRepo {
	return &ragFileRepo{db: db, log: baseLog.With("repo", "RagFileRepo")}
}

func (r *ragFileRepo) Create(ctx context.Context, tx *gorm.DB, row *types.RagFile) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *ragFileRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RagFile, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t := tx
	if t == nil {
		t = r.db
	}
	var row types.RagFile
	if err := t.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *ragFileRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.RagFile, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.RagFile
	if err := t.WithContext(ctx).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ragFileRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Where("id = ?", id).Delete(&types.RagFile{}).Error
}
