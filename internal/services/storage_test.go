package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/peiassist/backend/internal/data/repos"
	"github.com/peiassist/backend/internal/data/repos/testutil"
	types "github.com/peiassist/backend/internal/domain"
)

func newTestStorage(t *testing.T) *StorageService {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	return NewStorageService(
		gdb, log,
		repos.NewPeiRepo(gdb, log),
		repos.NewActivityRepo(gdb, log),
		repos.NewRagFileRepo(gdb, log),
	)
}

func savePlan(t *testing.T, s *StorageService, studentName string, data map[string]string) *types.Pei {
	t.Helper()
	row, err := s.SavePei(context.Background(), nil, studentName, DraftSnapshot{Data: data})
	require.NoError(t, err)
	return row
}

func TestGetPeiMissingReturnsNil(t *testing.T) {
	s := newTestStorage(t)

	row, err := s.GetPei(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Nil(t, row)
}

func TestSavePeiRecreatesUnderStableID(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	row := savePlan(t, s, "Ana", map[string]string{types.FieldStudentName: "Ana"})
	require.NoError(t, s.DeletePei(ctx, row.ID))

	// The session keeps the id it was handed even if the record vanished.
	again, err := s.SavePei(ctx, &row.ID, "Ana", DraftSnapshot{Data: map[string]string{types.FieldStudentName: "Ana"}})
	require.NoError(t, err)
	require.Equal(t, row.ID, again.ID)

	rows, err := s.ListPeis(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestAddActivityToPeiAppendsRepeatedly(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	plan := savePlan(t, s, "Ana", map[string]string{types.FieldStudentName: "Ana"})
	activity, err := s.CreateActivity(ctx, &types.Activity{
		Title:       "Jogo da memória",
		Description: "Pares de figuras com palavras",
		Comment:     "Funciona bem em duplas",
	})
	require.NoError(t, err)

	_, err = s.AddActivityToPei(ctx, plan.ID, activity.ID)
	require.NoError(t, err)
	updated, err := s.AddActivityToPei(ctx, plan.ID, activity.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)

	var data map[string]string
	require.NoError(t, json.Unmarshal(updated.Data, &data))
	block := "Jogo da memória\nPares de figuras com palavras\nFunciona bem em duplas"
	require.Equal(t, block+"\n\n"+block, data[types.ActivitiesField],
		"linking twice appends twice, no dedup")
}

func TestAddActivityToPeiMissingEitherSideIsNil(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	plan := savePlan(t, s, "Ana", map[string]string{})
	activity, err := s.CreateActivity(ctx, &types.Activity{Title: "Leitura compartilhada"})
	require.NoError(t, err)

	row, err := s.AddActivityToPei(ctx, uuid.New(), activity.ID)
	require.NoError(t, err)
	require.Nil(t, row)

	row, err = s.AddActivityToPei(ctx, plan.ID, uuid.New())
	require.NoError(t, err)
	require.Nil(t, row)
}

func TestToggleFavorite(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	activity, err := s.CreateActivity(ctx, &types.Activity{Title: "Contação de histórias"})
	require.NoError(t, err)

	on, err := s.ToggleFavorite(ctx, activity.ID)
	require.NoError(t, err)
	require.True(t, on)

	off, err := s.ToggleFavorite(ctx, activity.ID)
	require.NoError(t, err)
	require.False(t, off)

	_, err = s.ToggleFavorite(ctx, uuid.New())
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
