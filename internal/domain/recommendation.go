package domain

import "strings"

type RecommendationItem struct {
	ID                 string   `json:"id,omitempty"`
	Title              string   `json:"title"`
	Type               ItemType `json:"type"`
	DurationSeconds    *int     `json:"durationSeconds,omitempty"`
	Reason             string   `json:"reason"`
	Source             Source   `json:"source"`
	Priority           int      `json:"priority"` // 1-10
	ImmediateRelief    bool     `json:"immediateRelief,omitempty"`
	EffectivenessScore *float64 `json:"effectivenessScore,omitempty"`
}

// DedupKey is the item identity: the ID when present, else the lower-cased title.
func (i RecommendationItem) DedupKey() string {
	if i.ID != "" {
		return "id:" + i.ID
	}
	return "title:" + strings.ToLower(strings.TrimSpace(i.Title))
}

// UserContext is the profile projection used for recommendations.
type UserContext struct {
	Approach            Approach     `json:"approach"`
	WellnessScore       float64      `json:"wellnessScore"`
	RecentMood          string       `json:"recentMood,omitempty"`
	AssessmentResults   []Assessment `json:"assessmentResults"`
	CompletedContentIDs []string     `json:"completedContentIds"`
	EngagementHistory   []Engagement `json:"engagementHistory"`
}

type Situation struct {
	TimeOfDay        string    `json:"timeOfDay,omitempty"`
	AvailableMinutes *int      `json:"availableMinutes,omitempty"`
	Environment      string    `json:"environment,omitempty"`
	CrisisLevel      RiskLevel `json:"crisisLevel"`
	ImmediateNeed    bool      `json:"immediateNeed,omitempty"`
}

type RecommendationContext struct {
	UserID    string      `json:"userId,omitempty"`
	User      UserContext `json:"user"`
	Situation Situation   `json:"situation"`
}

type RecommendationResult struct {
	Items           []RecommendationItem `json:"items"`
	FocusAreas      []string             `json:"focusAreas"`
	Rationale       string               `json:"rationale"`
	CrisisLevel     RiskLevel            `json:"crisisLevel"`
	ImmediateAction bool                 `json:"immediateAction"`
	FallbackUsed    bool                 `json:"fallbackUsed"`
}
