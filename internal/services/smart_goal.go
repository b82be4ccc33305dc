package services

import (
	"encoding/json"
	"strings"

	types "github.com/peiassist/backend/internal/domain"
)

// ParseSmartAnalysis extracts a SMART critique from raw model text. The model
// may wrap the JSON object in prose; tolerance is exactly the substring from
// the first '{' to the last '}', inclusive. All five dimensions must be
// present or nothing is returned.
func ParseSmartAnalysis(raw string) (*types.GoalAnalysis, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, &ParseError{Reason: "nenhum objeto JSON encontrado na resposta"}
	}

	payload := raw[start : end+1]

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &keys); err != nil {
		return nil, &ParseError{Reason: "JSON malformado: " + err.Error()}
	}
	for _, dim := range []string{"isSpecific", "isMeasurable", "isAchievable", "isRelevant", "isTimeBound"} {
		if _, ok := keys[dim]; !ok {
			return nil, &ParseError{Reason: "dimensão ausente: " + dim}
		}
	}

	var analysis types.GoalAnalysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, &ParseError{Reason: "estrutura inesperada: " + err.Error()}
	}
	return &analysis, nil
}
