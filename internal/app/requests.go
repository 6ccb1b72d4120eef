package app

import "github.com/alexanderramin/haven/internal/domain"

type DetectRequest struct {
	UserID   string                `json:"userId"`
	Snapshot domain.SignalSnapshot `json:"snapshot"`
}

// RecommendRequest asks for recommendations built from stored history.
// The crisis level is always taken from a fresh detection run.
type RecommendRequest struct {
	UserID           string `json:"userId"`
	MaxItems         int    `json:"maxItems"`
	TimeOfDay        string `json:"timeOfDay,omitempty"`
	AvailableMinutes *int   `json:"availableMinutes,omitempty"`
	Environment      string `json:"environment,omitempty"`
	ImmediateNeed    bool   `json:"immediateNeed,omitempty"`
}

type RecommendResponse struct {
	Detection      domain.CrisisDetectionResult `json:"detection"`
	Recommendation domain.RecommendationResult  `json:"recommendation"`
}

// ContextRecommendRequest is the stateless form: the caller supplies the
// full context.
type ContextRecommendRequest struct {
	Context  domain.RecommendationContext `json:"context"`
	MaxItems int                          `json:"maxItems"`
}

type CheckRequest struct {
	Text string `json:"text"`
}

// CheckResult is the outcome of screening one message for crisis language.
type CheckResult struct {
	CrisisLanguage bool     `json:"crisisLanguage"`
	Reply          string   `json:"reply,omitempty"`
	Support        []string `json:"support"`
}
