package domain

import (
	"fmt"
	"strings"
)

// RiskLevel is the ordered severity of inferred user safety risk.
// Levels are ranked integers; compare them with CompareRisk, never by name.
type RiskLevel int

const (
	RiskNone RiskLevel = iota
	RiskLow
	RiskModerate
	RiskHigh
	RiskCritical
)

var riskNames = [...]string{"NONE", "LOW", "MODERATE", "HIGH", "CRITICAL"}

// AllRiskLevels lists every level in ascending order.
var AllRiskLevels = []RiskLevel{RiskNone, RiskLow, RiskModerate, RiskHigh, RiskCritical}

func (r RiskLevel) String() string {
	if r < RiskNone || r > RiskCritical {
		return "UNKNOWN"
	}
	return riskNames[r]
}

// ParseRiskLevel parses a level name case-insensitively.
func ParseRiskLevel(s string) (RiskLevel, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range riskNames {
		if n == name {
			return RiskLevel(i), nil
		}
	}
	return RiskNone, fmt.Errorf("unknown risk level %q", s)
}

func (r RiskLevel) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *RiskLevel) UnmarshalText(text []byte) error {
	lvl, err := ParseRiskLevel(string(text))
	if err != nil {
		return err
	}
	*r = lvl
	return nil
}

// riskRank clamps out-of-range values so that the order stays total.
func riskRank(r RiskLevel) int {
	switch {
	case r < RiskNone:
		return int(RiskNone)
	case r > RiskCritical:
		return int(RiskCritical)
	}
	return int(r)
}

// CompareRisk returns -1, 0 or +1 as a is lower than, equal to, or higher than b.
func CompareRisk(a, b RiskLevel) int {
	ra, rb := riskRank(a), riskRank(b)
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	}
	return 0
}

// MaxRisk returns the higher of two levels.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if CompareRisk(b, a) > 0 {
		return b
	}
	return a
}

// Above reports whether r is strictly higher than other.
func (r RiskLevel) Above(other RiskLevel) bool {
	return CompareRisk(r, other) > 0
}

// RequiresImmediateAction is true for HIGH and CRITICAL.
func (r RiskLevel) RequiresImmediateAction() bool {
	return CompareRisk(r, RiskHigh) >= 0
}

type Approach string

const (
	ApproachWestern Approach = "western"
	ApproachEastern Approach = "eastern"
	ApproachHybrid  Approach = "hybrid"
)

// ParseApproach maps free text to an Approach, defaulting to hybrid.
func ParseApproach(s string) Approach {
	switch Approach(strings.ToLower(strings.TrimSpace(s))) {
	case ApproachWestern:
		return ApproachWestern
	case ApproachEastern:
		return ApproachEastern
	default:
		return ApproachHybrid
	}
}

// Matches reports whether catalog material tagged with other suits a user
// following a. Hybrid on either side matches everything.
func (a Approach) Matches(other Approach) bool {
	if a == "" || other == "" || a == ApproachHybrid || other == ApproachHybrid {
		return true
	}
	return a == other
}

type ItemType string

const (
	ItemContent        ItemType = "content"
	ItemPractice       ItemType = "practice"
	ItemSuggestion     ItemType = "suggestion"
	ItemCrisisResource ItemType = "crisis-resource"
)

type Source string

const (
	SourceLibrary  Source = "library"
	SourcePractice Source = "practice"
	SourceInsight  Source = "insight"
	SourceCrisis   Source = "crisis"
	SourceFallback Source = "fallback"
)

type ActionTaken string

const (
	ActionImmediateIntervention ActionTaken = "IMMEDIATE_INTERVENTION"
	ActionMonitoring            ActionTaken = "MONITORING"
)
