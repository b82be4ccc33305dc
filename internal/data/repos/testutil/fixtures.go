package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/peiassist/backend/internal/domain"
)

func SeedPei(tb testing.TB, ctx context.Context, tx *gorm.DB, studentName string) *types.Pei {
	tb.Helper()
	p := &types.Pei{
		ID:                uuid.New(),
		StudentName:       studentName,
		Data:              datatypes.JSON([]byte(`{"aluno-nome":"` + studentName + `"}`)),
		AIGeneratedFields: datatypes.JSON([]byte(`[]`)),
		SmartAnalysis:     datatypes.JSON([]byte(`{}`)),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed pei: %v", err)
	}
	return p
}

func SeedActivity(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *types.Activity {
	tb.Helper()
	a := &types.Activity{
		ID:          uuid.New(),
		Title:       title,
		Description: "desc",
		Discipline:  "matemática",
		Skills:      datatypes.JSON([]byte(`[]`)),
		Needs:       datatypes.JSON([]byte(`[]`)),
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed activity: %v", err)
	}
	return a
}

func SeedRagFile(tb testing.TB, ctx context.Context, tx *gorm.DB, filename, content string) *types.RagFile {
	tb.Helper()
	f := &types.RagFile{
		ID:       uuid.New(),
		Filename: filename,
		Content:  content,
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed rag file: %v", err)
	}
	return f
}
