package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const fullAnalysisJSON = `{"isSpecific":{"critique":"c1","suggestion":"s1"},` +
	`"isMeasurable":{"critique":"c2","suggestion":"s2"},` +
	`"isAchievable":{"critique":"c3","suggestion":"s3"},` +
	`"isRelevant":{"critique":"c4","suggestion":"s4"},` +
	`"isTimeBound":{"critique":"c5","suggestion":"s5"}}`

func TestParseSmartAnalysisIgnoresSurroundingProse(t *testing.T) {
	raw := "Here is the result: " + fullAnalysisJSON + " Thanks!"
	analysis, err := ParseSmartAnalysis(raw)
	require.NoError(t, err)
	require.Equal(t, "c1", analysis.IsSpecific.Critique)
	require.Equal(t, "s2", analysis.IsMeasurable.Suggestion)
	require.Equal(t, "c3", analysis.IsAchievable.Critique)
	require.Equal(t, "s4", analysis.IsRelevant.Suggestion)
	require.Equal(t, "c5", analysis.IsTimeBound.Critique)
}

func TestParseSmartAnalysisNoBraces(t *testing.T) {
	for _, raw := range []string{"sem json aqui", "só abre {", "só fecha }", "} invertido {"} {
		analysis, err := ParseSmartAnalysis(raw)
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr, "input %q", raw)
		require.Nil(t, analysis)
	}
}

func TestParseSmartAnalysisMalformedJSON(t *testing.T) {
	analysis, err := ParseSmartAnalysis(`{"isSpecific": truncated`)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Nil(t, analysis)
}

func TestParseSmartAnalysisMissingDimension(t *testing.T) {
	raw := `{"isSpecific":{"critique":"c","suggestion":"s"},` +
		`"isMeasurable":{"critique":"c","suggestion":"s"},` +
		`"isAchievable":{"critique":"c","suggestion":"s"},` +
		`"isRelevant":{"critique":"c","suggestion":"s"}}`
	analysis, err := ParseSmartAnalysis(raw)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Contains(t, err.Error(), "isTimeBound")
	require.Nil(t, analysis)
}
