package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/peiassist/backend/internal/data/repos"
	"github.com/peiassist/backend/internal/data/repos/testutil"
	types "github.com/peiassist/backend/internal/domain"
)

func newTestAutosave(t *testing.T, savedHold time.Duration) (*AutosaveService, *PeiDraft, *StorageService) {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	storage := NewStorageService(
		gdb, log,
		repos.NewPeiRepo(gdb, log),
		repos.NewActivityRepo(gdb, log),
		repos.NewRagFileRepo(gdb, log),
	)
	draft := NewPeiDraft()
	auto := NewAutosaveService(log, draft, storage, time.Hour, savedHold)
	return auto, draft, storage
}

func TestAutosaveSkipsBlankStudentName(t *testing.T) {
	auto, draft, storage := newTestAutosave(t, time.Second)
	draft.SetField("id-diagnostico", "TEA nível 1")
	draft.SetField(types.FieldStudentName, "   ")

	require.NoError(t, auto.SaveNow(context.Background()))

	rows, err := storage.ListPeis(context.Background())
	require.NoError(t, err)
	require.Empty(t, rows, "blank student name must not be persisted")
	require.Nil(t, draft.ID())
	require.Equal(t, AutosaveIdle, auto.Status())
}

func TestAutosaveAssignsIDOnFirstSaveThenUpdates(t *testing.T) {
	auto, draft, storage := newTestAutosave(t, time.Second)
	draft.SetField(types.FieldStudentName, "João")
	draft.SetField("metas-curto", "primeira versão da meta")

	require.NoError(t, auto.SaveNow(context.Background()))
	require.NotNil(t, draft.ID())
	firstID := *draft.ID()

	draft.SetField("metas-curto", "meta revisada")
	require.NoError(t, auto.SaveNow(context.Background()))
	require.Equal(t, firstID, *draft.ID(), "later cycles must reuse the assigned identifier")

	rows, err := storage.ListPeis(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1, "second cycle must update, not duplicate")

	var data map[string]string
	require.NoError(t, json.Unmarshal(rows[0].Data, &data))
	require.Equal(t, "meta revisada", data["metas-curto"])
	require.Equal(t, "João", rows[0].StudentName)
}

func TestAutosaveConcurrentFirstSavesCreateOneRecord(t *testing.T) {
	auto, draft, storage := newTestAutosave(t, time.Second)
	draft.SetField(types.FieldStudentName, "Clara")

	// The ticker loop and a manual save can fire together; both cycles must
	// converge on a single identifier.
	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- auto.SaveNow(context.Background())
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	rows, err := storage.ListPeis(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1, "concurrent first saves must not fork the session")
	require.NotNil(t, draft.ID())
	require.Equal(t, rows[0].ID, *draft.ID())
}

func TestAutosaveStatusTransitions(t *testing.T) {
	auto, draft, _ := newTestAutosave(t, 30*time.Millisecond)
	require.Equal(t, AutosaveIdle, auto.Status())

	draft.SetField(types.FieldStudentName, "Maria")
	require.NoError(t, auto.SaveNow(context.Background()))
	require.Equal(t, AutosaveSaved, auto.Status())

	require.Eventually(t, func() bool {
		return auto.Status() == AutosaveIdle
	}, time.Second, 5*time.Millisecond, "saved status must decay back to idle")
}

func TestAutosavePersistsProvenanceAndAnalyses(t *testing.T) {
	auto, draft, storage := newTestAutosave(t, time.Second)
	draft.SetField(types.FieldStudentName, "Pedro")
	v := draft.FieldVersion("metas-curto")
	require.True(t, draft.ApplyGenerated("metas-curto", "meta gerada", v))
	draft.SetSmart("metas-curto", types.GoalAnalysis{
		IsSpecific: types.GoalDimension{Critique: "ok", Suggestion: "nenhuma"},
	})

	require.NoError(t, auto.SaveNow(context.Background()))

	row, err := storage.GetPei(context.Background(), *draft.ID())
	require.NoError(t, err)
	require.NotNil(t, row)

	var generated []string
	require.NoError(t, json.Unmarshal(row.AIGeneratedFields, &generated))
	require.Equal(t, []string{"metas-curto"}, generated)

	var smart map[string]types.GoalAnalysis
	require.NoError(t, json.Unmarshal(row.SmartAnalysis, &smart))
	require.Equal(t, "ok", smart["metas-curto"].IsSpecific.Critique)
}
