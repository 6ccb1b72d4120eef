package domain

import "time"

type UserMessage struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type Assessment struct {
	Type        string    `json:"type"`
	Score       float64   `json:"score"` // normalized 0-100
	CompletedAt time.Time `json:"completedAt"`
}

type MoodEntry struct {
	Mood      string    `json:"mood"`
	Timestamp time.Time `json:"timestamp"`
}

type Engagement struct {
	ContentID     string    `json:"contentId,omitempty"`
	Completed     bool      `json:"completed"`
	Effectiveness *int      `json:"effectiveness,omitempty"` // 1-10
	Rating        *int      `json:"rating,omitempty"`        // 1-5
	TimeSpentSec  *int      `json:"timeSpentSec,omitempty"`
	EngagedAt     time.Time `json:"engagedAt"`
}

// HighlyRated reports whether the user marked this engagement as helpful.
func (e Engagement) HighlyRated() bool {
	return (e.Rating != nil && *e.Rating >= 4) || (e.Effectiveness != nil && *e.Effectiveness >= 7)
}

// SignalSnapshot is the read-only user history a detection runs over.
// It is built fresh for every request.
type SignalSnapshot struct {
	UserID             string        `json:"userId"`
	RecentUserMessages []UserMessage `json:"recentUserMessages"`
	RecentAssessments  []Assessment  `json:"recentAssessments"`
	RecentMoodEntries  []MoodEntry   `json:"recentMoodEntries"`
	RecentEngagements  []Engagement  `json:"recentEngagements"`
}

// AnalyzerResult is the output of a single signal analyzer.
type AnalyzerResult struct {
	Level      RiskLevel `json:"level"`
	Confidence float64   `json:"confidence"`
	Indicators []string  `json:"indicators"`
}

// NoRisk is the neutral analyzer result used for absent data and failures.
func NoRisk() AnalyzerResult {
	return AnalyzerResult{Level: RiskNone, Indicators: []string{}}
}

type CrisisDetectionResult struct {
	Level           RiskLevel `json:"level"`
	Confidence      float64   `json:"confidence"`
	Indicators      []string  `json:"indicators"`
	Recommendations []string  `json:"recommendations"`
	ImmediateAction bool      `json:"immediateAction"`
	// Degraded is set when detection could not run to completion.
	Degraded bool `json:"degraded,omitempty"`
}

// ActionTaken derives the analytics action label from the result.
func (r CrisisDetectionResult) ActionTaken() ActionTaken {
	if r.ImmediateAction {
		return ActionImmediateIntervention
	}
	return ActionMonitoring
}

// CrisisEvent is the analytics record emitted for elevated detections.
type CrisisEvent struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Level       RiskLevel   `json:"level"`
	Confidence  float64     `json:"confidence"`
	Indicators  []string    `json:"indicators"`
	ActionTaken ActionTaken `json:"actionTaken"`
	OccurredAt  time.Time   `json:"occurredAt"`
}
