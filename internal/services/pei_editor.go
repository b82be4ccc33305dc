package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	types "github.com/peiassist/backend/internal/domain"
	"github.com/peiassist/backend/internal/platform/logger"
)

// Task kinds. Loading flags are keyed by fieldID + "-" + kind so two tasks on
// one field, or one task on two fields, have independent state.
const (
	TaskGenerate = "ai"
	TaskValidate = "smart"
	TaskSuggest  = "suggest"
	TaskRefine   = "refine"
)

// PeiEditorService orchestrates per-field AI tasks against the dispatcher and
// mutates the draft with their results. Every task is terminal for one
// invocation: a failure clears the loading flag and leaves the document
// exactly as it was.
type PeiEditorService struct {
	log     *logger.Logger
	ai      TextGenerator
	draft   *PeiDraft
	storage *StorageService

	mu      sync.Mutex
	loading map[string]bool
}

func NewPeiEditorService(baseLog *logger.Logger, ai TextGenerator, draft *PeiDraft, storage *StorageService) *PeiEditorService {
	return &PeiEditorService{
		log:     baseLog.With("service", "PeiEditorService"),
		ai:      ai,
		draft:   draft,
		storage: storage,
		loading: map[string]bool{},
	}
}

func (s *PeiEditorService) Draft() *PeiDraft { return s.draft }

func (s *PeiEditorService) setLoading(fieldID, kind string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fieldID + "-" + kind
	if on {
		s.loading[key] = true
	} else {
		delete(s.loading, key)
	}
}

// LoadingStates returns a copy of every active (field, task) flag.
func (s *PeiEditorService) LoadingStates() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.loading))
	for k, v := range s.loading {
		out[k] = v
	}
	return out
}

// GenerateField builds a prompt from the entire current document and replaces
// the target field with the model's answer, marking its provenance. It fails
// fast, without enqueueing, while any required upstream field is empty.
func (s *PeiEditorService) GenerateField(ctx context.Context, fieldID string) (string, error) {
	snap := s.draft.Snapshot()

	var missing []string
	for _, required := range types.RequiredFields {
		if strings.TrimSpace(snap.Data[required]) == "" {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return "", &ValidationError{
			Message:       "preencha a Identificação e a Avaliação Inicial antes de usar a IA",
			MissingFields: missing,
		}
	}

	s.setLoading(fieldID, TaskGenerate, true)
	defer s.setLoading(fieldID, TaskGenerate, false)

	version := s.draft.FieldVersion(fieldID)
	prompt := fmt.Sprintf(
		"Gere o conteúdo para o campo %q do PEI. Contexto atual:\n%s\nResponda apenas com o texto do campo.",
		types.FieldLabel(fieldID), s.documentContext(ctx, snap),
	)

	text, err := s.ai.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if !s.draft.ApplyGenerated(fieldID, text, version) {
		s.log.Info("Discarded stale generation result", "field", fieldID)
		return text, nil
	}
	return text, nil
}

// ValidateGoal sends a goal field's current text for SMART critique and stores
// the parsed result keyed by field. The field's content and provenance are
// untouched.
func (s *PeiEditorService) ValidateGoal(ctx context.Context, fieldID string) (*types.GoalAnalysis, error) {
	if !types.IsGoalField(fieldID) {
		return nil, &ValidationError{Message: "análise SMART disponível apenas para campos de metas"}
	}

	s.setLoading(fieldID, TaskValidate, true)
	defer s.setLoading(fieldID, TaskValidate, false)

	goal := s.draft.Field(fieldID)
	prompt := fmt.Sprintf(
		"Analise a meta %q no formato SMART. Retorne um JSON:\n"+
			`{"isSpecific": {"critique": "...", "suggestion": "..."}, "isMeasurable": {...}, `+
			`"isAchievable": {...}, "isRelevant": {...}, "isTimeBound": {...}}`,
		goal,
	)

	raw, err := s.ai.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	analysis, err := ParseSmartAnalysis(raw)
	if err != nil {
		return nil, err
	}
	s.draft.SetSmart(fieldID, *analysis)
	return analysis, nil
}

// SuggestActivities asks for activities matching a goal and appends the answer
// to the aggregation field. The append is unconditional and unbounded.
func (s *PeiEditorService) SuggestActivities(ctx context.Context, fieldID string) (string, error) {
	if !types.IsGoalField(fieldID) {
		return "", &ValidationError{Message: "sugestão de atividades disponível apenas para campos de metas"}
	}

	s.setLoading(fieldID, TaskSuggest, true)
	defer s.setLoading(fieldID, TaskSuggest, false)

	snap := s.draft.Snapshot()
	prompt := fmt.Sprintf(
		"Com base no seguinte PEI, sugira atividades pedagógicas específicas para a meta %q:\n\n%s",
		snap.Data[fieldID], s.documentContext(ctx, snap),
	)

	text, err := s.ai.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	s.draft.AppendActivities(text)
	return text, nil
}

// RefineText rewrites one field's text under a user instruction and returns
// the rewritten version without touching the draft; the caller decides whether
// to apply it.
func (s *PeiEditorService) RefineText(ctx context.Context, fieldID, current, instruction string) (string, error) {
	if strings.TrimSpace(instruction) == "" {
		return "", &ValidationError{Message: "instrução de refinamento vazia"}
	}

	s.setLoading(fieldID, TaskRefine, true)
	defer s.setLoading(fieldID, TaskRefine, false)

	prompt := fmt.Sprintf(
		"Você está editando o campo %q de um PEI.\nO conteúdo atual é:\n%q\n\n"+
			"O usuário deseja refinar este conteúdo com a seguinte instrução:\n%q\n\n"+
			"Reescreva o conteúdo seguindo a instrução e mantenha o tom profissional e pedagógico. "+
			"Retorne APENAS o novo texto.",
		types.FieldLabel(fieldID), current, instruction,
	)
	return s.ai.Generate(ctx, prompt)
}

// LoadPei replaces the draft with a stored plan.
func (s *PeiEditorService) LoadPei(ctx context.Context, id uuid.UUID) error {
	row, err := s.storage.GetPei(ctx, id)
	if err != nil {
		return err
	}
	if row == nil {
		return &ValidationError{Message: "plano não encontrado"}
	}
	return s.draft.LoadRecord(row)
}

// documentContext renders every field-id/value pair in form order, followed by
// the text of any support attachments.
func (s *PeiEditorService) documentContext(ctx context.Context, snap DraftSnapshot) string {
	var b strings.Builder
	for _, section := range types.FormSections {
		for _, f := range section.Fields {
			if v, ok := snap.Data[f.ID]; ok {
				fmt.Fprintf(&b, "%s: %s\n", f.ID, v)
			}
		}
	}

	files, err := s.storage.ListRagFiles(ctx)
	if err != nil {
		s.log.Warn("Could not load support files for prompt context", "error", err)
		return b.String()
	}
	for _, f := range files {
		if strings.TrimSpace(f.Content) == "" {
			continue
		}
		fmt.Fprintf(&b, "\nMaterial de apoio (%s):\n%s\n", f.Filename, f.Content)
	}
	return b.String()
}
