package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/peiassist/backend/internal/data/repos"
	types "github.com/peiassist/backend/internal/domain"
	"github.com/peiassist/backend/internal/platform/logger"
)

// StorageService is the persistence store for the three local collections.
// All writes are whole-record replacement except AddActivityToPei, which is
// additive.
type StorageService struct {
	log        *logger.Logger
	db         *gorm.DB
	peis       repos.PeiRepo
	activities repos.ActivityRepo
	ragFiles   repos.RagFileRepo
}

func NewStorageService(
	db *gorm.DB,
	baseLog *logger.Logger,
	peis repos.PeiRepo,
	activities repos.ActivityRepo,
	ragFiles repos.RagFileRepo,
) *StorageService {
	return &StorageService{
		log:        baseLog.With("service", "StorageService"),
		db:         db,
		peis:       peis,
		activities: activities,
		ragFiles:   ragFiles,
	}
}

// ---- Plans ----

// SavePei persists a draft snapshot. Without an existing id it creates the
// record and assigns one; with an id it replaces the same record (re-creating
// it under that id if it was removed externally, so the session id stays
// stable either way).
func (s *StorageService) SavePei(ctx context.Context, existingID *uuid.UUID, studentName string, snap DraftSnapshot) (*types.Pei, error) {
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return nil, fmt.Errorf("encode plan data: %w", err)
	}
	generated, err := json.Marshal(snap.AIGenerated)
	if err != nil {
		return nil, fmt.Errorf("encode plan provenance: %w", err)
	}
	smart, err := json.Marshal(snap.Smart)
	if err != nil {
		return nil, fmt.Errorf("encode plan analyses: %w", err)
	}

	if existingID != nil && *existingID != uuid.Nil {
		row, err := s.peis.GetByID(ctx, nil, *existingID)
		if err != nil {
			return nil, err
		}
		if row != nil {
			row.StudentName = studentName
			row.Data = datatypes.JSON(data)
			row.AIGeneratedFields = datatypes.JSON(generated)
			row.SmartAnalysis = datatypes.JSON(smart)
			if err := s.peis.Update(ctx, nil, row); err != nil {
				return nil, err
			}
			return row, nil
		}
	}

	row := &types.Pei{
		StudentName:       studentName,
		Data:              datatypes.JSON(data),
		AIGeneratedFields: datatypes.JSON(generated),
		SmartAnalysis:     datatypes.JSON(smart),
	}
	if existingID != nil && *existingID != uuid.Nil {
		row.ID = *existingID
	} else {
		row.ID = uuid.New()
	}
	if err := s.peis.Create(ctx, nil, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *StorageService) ListPeis(ctx context.Context) ([]*types.Pei, error) {
	return s.peis.List(ctx, nil)
}

// GetPei returns nil (no error) when the record does not exist.
func (s *StorageService) GetPei(ctx context.Context, id uuid.UUID) (*types.Pei, error) {
	return s.peis.GetByID(ctx, nil, id)
}

func (s *StorageService) DeletePei(ctx context.Context, id uuid.UUID) error {
	return s.peis.Delete(ctx, nil, id)
}

// AddActivityToPei appends the activity's descriptive content to the plan's
// aggregation field. Repeated calls with the same activity append repeatedly;
// there is no deduplication.
func (s *StorageService) AddActivityToPei(ctx context.Context, peiID, activityID uuid.UUID) (*types.Pei, error) {
	row, err := s.peis.GetByID(ctx, nil, peiID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	activity, err := s.activities.GetByID(ctx, nil, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, nil
	}

	data := map[string]string{}
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &data); err != nil {
			return nil, fmt.Errorf("decode plan data: %w", err)
		}
	}

	block := activityBlock(activity)
	cur := data[types.ActivitiesField]
	if strings.TrimSpace(cur) == "" {
		data[types.ActivitiesField] = block
	} else {
		data[types.ActivitiesField] = cur + "\n\n" + block
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode plan data: %w", err)
	}
	row.Data = datatypes.JSON(encoded)
	if err := s.peis.Update(ctx, nil, row); err != nil {
		return nil, err
	}
	s.log.Info("Linked activity into plan", "activity_id", activityID, "pei_id", peiID)
	return row, nil
}

func activityBlock(a *types.Activity) string {
	var b strings.Builder
	b.WriteString(a.Title)
	if strings.TrimSpace(a.Description) != "" {
		b.WriteString("\n")
		b.WriteString(a.Description)
	}
	if strings.TrimSpace(a.Comment) != "" {
		b.WriteString("\n")
		b.WriteString(a.Comment)
	}
	return b.String()
}

// ---- Activity bank ----

func (s *StorageService) ListActivities(ctx context.Context) ([]*types.Activity, error) {
	return s.activities.List(ctx, nil)
}

func (s *StorageService) GetActivity(ctx context.Context, id uuid.UUID) (*types.Activity, error) {
	return s.activities.GetByID(ctx, nil, id)
}

func (s *StorageService) CreateActivity(ctx context.Context, row *types.Activity) (*types.Activity, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	rows, err := s.activities.Create(ctx, nil, []*types.Activity{row})
	if err != nil {
		return nil, err
	}
	return rows[0], nil
}

func (s *StorageService) UpdateActivity(ctx context.Context, row *types.Activity) error {
	return s.activities.Update(ctx, nil, row)
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *StorageService) ToggleFavorite(ctx context.Context, id uuid.UUID) (bool, error) {
	row, err := s.activities.GetByID(ctx, nil, id)
	if err != nil {
		return false, err
	}
	if row == nil {
		return false, gorm.ErrRecordNotFound
	}
	next := !row.Favorite
	if err := s.activities.UpdateFields(ctx, nil, id, map[string]interface{}{"favorite": next}); err != nil {
		return false, err
	}
	return next, nil
}

func (s *StorageService) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	return s.activities.Delete(ctx, nil, id)
}

// ---- Support files ----

func (s *StorageService) ListRagFiles(ctx context.Context) ([]*types.RagFile, error) {
	return s.ragFiles.List(ctx, nil)
}

func (s *StorageService) GetRagFile(ctx context.Context, id uuid.UUID) (*types.RagFile, error) {
	return s.ragFiles.GetByID(ctx, nil, id)
}

func (s *StorageService) CreateRagFile(ctx context.Context, row *types.RagFile) (*types.RagFile, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := s.ragFiles.Create(ctx, nil, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *StorageService) DeleteRagFile(ctx context.Context, id uuid.UUID) error {
	return s.ragFiles.Delete(ctx, nil, id)
}
