package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/peiassist/backend/internal/domain"
	"github.com/peiassist/backend/internal/platform/logger"
)

type ActivityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Activity) ([]*types.Activity, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Activity, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Activity, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Activity) error
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

func (r *activityRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Activity) ([]*types.Activity, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Activity{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *activityRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Activity, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t := tx
	if t == nil {
		t = r.db
	}
	var row types.Activity
	if err := t.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *activityRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Activity, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Activity
	if err := t.WithContext(ctx).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *activityRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Activity) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *activityRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Model(&types.Activity{}).Where("id = ?", id).Updates(updates).Error
}

// Delete removes the record entirely; the activity bank has no soft-delete.
func (r *activityRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Where("id = ?", id).Delete(&types.Activity{}).Error
}
