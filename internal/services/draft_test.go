package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	types "github.com/peiassist/backend/internal/domain"
)

func TestDraftEditRemovesProvenance(t *testing.T) {
	d := NewPeiDraft()

	v := d.FieldVersion("metas-curto")
	require.True(t, d.ApplyGenerated("metas-curto", "meta gerada", v))
	require.Equal(t, []string{"metas-curto"}, d.Snapshot().AIGenerated)

	d.SetField("metas-curto", "meta editada pelo professor")
	snap := d.Snapshot()
	require.Empty(t, snap.AIGenerated)
	require.Equal(t, "meta editada pelo professor", snap.Data["metas-curto"])

	// Editing again while already unmarked is a no-op on the set.
	d.SetField("metas-curto", "outra edição")
	require.Empty(t, d.Snapshot().AIGenerated)
}

func TestDraftStaleGenerationDiscarded(t *testing.T) {
	d := NewPeiDraft()
	d.SetField("id-diagnostico", "TDAH")

	version := d.FieldVersion("id-diagnostico")
	d.SetField("id-diagnostico", "TDAH e dislexia")

	require.False(t, d.ApplyGenerated("id-diagnostico", "resultado atrasado", version))
	snap := d.Snapshot()
	require.Equal(t, "TDAH e dislexia", snap.Data["id-diagnostico"])
	require.Empty(t, snap.AIGenerated)
}

func TestDraftAppendActivities(t *testing.T) {
	d := NewPeiDraft()

	d.AppendActivities("primeira sugestão")
	d.AppendActivities("segunda sugestão")

	snap := d.Snapshot()
	require.Equal(t, "primeira sugestão\n\nsegunda sugestão", snap.Data[types.ActivitiesField])
	require.Empty(t, snap.AIGenerated, "aggregation field is never marked AI-generated")
}

func TestDraftIDAssignedOnce(t *testing.T) {
	d := NewPeiDraft()
	require.Nil(t, d.ID())

	first := uuid.New()
	d.SetID(first)
	require.Equal(t, first, *d.ID())

	d.SetID(uuid.New())
	require.Equal(t, first, *d.ID(), "identifier must not change once assigned")

	d.Clear()
	require.Nil(t, d.ID())
}

func TestDraftSnapshotIsIsolated(t *testing.T) {
	d := NewPeiDraft()
	d.SetField("aluno-nome", "Ana")

	snap := d.Snapshot()
	snap.Data["aluno-nome"] = "alterado na cópia"

	require.Equal(t, "Ana", d.Field("aluno-nome"))
}

func TestDraftEmptyGenerationNotMarked(t *testing.T) {
	d := NewPeiDraft()
	v := d.FieldVersion("est-adaptacoes")
	require.True(t, d.ApplyGenerated("est-adaptacoes", "   ", v))
	require.Empty(t, d.Snapshot().AIGenerated)
}
