package types

// GoalDimension is one axis of a SMART critique.
type GoalDimension struct {
	Critique   string `json:"critique"`
	Suggestion string `json:"suggestion"`
}

// GoalAnalysis is the structured critique of one goal field across the five
// SMART dimensions. The JSON keys match the model's response contract.
type GoalAnalysis struct {
	IsSpecific   GoalDimension `json:"isSpecific"`
	IsMeasurable GoalDimension `json:"isMeasurable"`
	IsAchievable GoalDimension `json:"isAchievable"`
	IsRelevant   GoalDimension `json:"isRelevant"`
	IsTimeBound  GoalDimension `json:"isTimeBound"`
}
