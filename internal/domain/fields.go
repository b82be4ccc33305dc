package types

import "strings"

// Field ids follow the form layout of the PEI editor. Section order matters
// for document previews and prompt context.
const (
	FieldStudentName = "aluno-nome"

	// ActivitiesField aggregates suggested activities; suggestion tasks append
	// to it instead of overwriting.
	ActivitiesField = "atividades-content"
)

type FormField struct {
	ID    string
	Label string
}

type FormSection struct {
	Title  string
	Fields []FormField
}

var FormSections = []FormSection{
	{
		Title: "1. Identificação",
		Fields: []FormField{
			{ID: FieldStudentName, Label: "Nome do Aluno"},
			{ID: "aluno-nasc", Label: "Data de Nascimento"},
			{ID: "aluno-serie", Label: "Série/Ano"},
			{ID: "id-diagnostico", Label: "Diagnóstico e Necessidades"},
			{ID: "id-contexto", Label: "Contexto Familiar e Escolar"},
		},
	},
	{
		Title: "2. Avaliação Inicial",
		Fields: []FormField{
			{ID: "aval-habilidades", Label: "Habilidades Acadêmicas"},
			{ID: "aval-social", Label: "Interação Social e Comportamento"},
			{ID: "aval-coord", Label: "Coordenação Motora e Autonomia"},
		},
	},
	{
		Title: "3. Metas e Objetivos",
		Fields: []FormField{
			{ID: "metas-curto", Label: "Metas de Curto Prazo (3 meses)"},
			{ID: "metas-medio", Label: "Metas de Médio Prazo (6 meses)"},
			{ID: "metas-longo", Label: "Metas de Longo Prazo (ano letivo)"},
		},
	},
	{
		Title: "4. Estratégias e Adaptações",
		Fields: []FormField{
			{ID: "est-adaptacoes", Label: "Adaptações Curriculares"},
			{ID: "est-metodologias", Label: "Metodologias de Ensino"},
			{ID: "est-parcerias", Label: "Parcerias e Colaborações"},
		},
	},
	{
		Title: "5. Responsabilidades",
		Fields: []FormField{
			{ID: "resp-regente", Label: "Professor Regente"},
			{ID: "resp-coord", Label: "Coordenação Pedagógica"},
			{ID: "resp-familia", Label: "Família"},
			{ID: "resp-apoio", Label: "Profissionais de Apoio"},
		},
	},
	{
		Title: "6. Revisão e Acompanhamento",
		Fields: []FormField{
			{ID: "revisao", Label: "Critérios e Periodicidade de Revisão"},
			{ID: "revisao-ajustes", Label: "Ajustes Realizados"},
		},
	},
	{
		Title: "7. Atividades Sugeridas",
		Fields: []FormField{
			{ID: ActivitiesField, Label: "Atividades Adaptadas"},
		},
	},
	{
		Title: "8. Desenho Universal para a Aprendizagem",
		Fields: []FormField{
			{ID: "dua-content", Label: "Aplicação dos Princípios do DUA"},
		},
	},
}

// RequiredFields are the identification and initial-assessment fields that
// must be filled before any generate task may run.
var RequiredFields = func() []string {
	var out []string
	for _, section := range FormSections[:2] {
		for _, f := range section.Fields {
			out = append(out, f.ID)
		}
	}
	return out
}()

// IsGoalField reports whether a field is a short/medium/long-term objective,
// eligible for SMART validation and activity suggestions.
func IsGoalField(fieldID string) bool {
	return strings.HasPrefix(fieldID, "metas-")
}

// FieldLabel returns the display label for a field id, or the id itself when
// unknown.
func FieldLabel(fieldID string) string {
	for _, section := range FormSections {
		for _, f := range section.Fields {
			if f.ID == fieldID {
				return f.Label
			}
		}
	}
	return fieldID
}

// KnownField reports whether the field id belongs to the form layout.
func KnownField(fieldID string) bool {
	for _, section := range FormSections {
		for _, f := range section.Fields {
			if f.ID == fieldID {
				return true
			}
		}
	}
	return false
}
