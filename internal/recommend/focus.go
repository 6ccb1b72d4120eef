package recommend

import (
	"sort"
	"strings"

	"github.com/alexanderramin/haven/internal/domain"
)

const (
	focusScoreThreshold   = 60
	focusWellnessBelow    = 60
	focusOverallWellbeing = "overall-wellbeing"
)

// moodFocus maps mood keywords to focus tags. Order decides output order
// when one mood carries several keywords.
var moodFocus = []struct {
	keywords []string
	tag      string
}{
	{[]string{"anxious", "worried", "nervous"}, "anxiety"},
	{[]string{"stressed", "overwhelmed"}, "stress-relief"},
	{[]string{"low", "sad", "depressed"}, "depression"},
	{[]string{"struggling"}, "mood-support"},
}

// assessmentFocus maps assessment type substrings to focus tags.
var assessmentFocus = []struct {
	match string
	tag   string
}{
	{"depress", "depression"},
	{"anxi", "anxiety"},
	{"trauma", "trauma"},
	{"ptsd", "trauma"},
	{"stress", "stress-relief"},
}

// FocusAreas derives topical tags from a user context. The result is
// de-duplicated and keeps first-seen order: assessments, then mood, then
// overall wellbeing.
func FocusAreas(user domain.UserContext) []string {
	areas := []string{}
	add := func(tag string) {
		for _, a := range areas {
			if a == tag {
				return
			}
		}
		areas = append(areas, tag)
	}

	for _, tag := range assessmentAreas(user.AssessmentResults) {
		add(tag)
	}

	mood := strings.ToLower(user.RecentMood)
	for _, m := range moodFocus {
		for _, kw := range m.keywords {
			if strings.Contains(mood, kw) {
				add(m.tag)
				break
			}
		}
	}

	if user.WellnessScore < focusWellnessBelow {
		add(focusOverallWellbeing)
	}
	return areas
}

// assessmentAreas flags assessment types whose latest score is at or above
// the threshold, or whose latest score rose over the previous one.
func assessmentAreas(assessments []domain.Assessment) []string {
	ordered := make([]domain.Assessment, len(assessments))
	copy(ordered, assessments)
	if allTimestamped(ordered) {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].CompletedAt.After(ordered[j].CompletedAt)
		})
	}

	var order []string
	byType := make(map[string][]float64)
	for _, a := range ordered {
		key := strings.ToLower(strings.TrimSpace(a.Type))
		if key == "" {
			continue
		}
		if _, seen := byType[key]; !seen {
			order = append(order, key)
		}
		byType[key] = append(byType[key], a.Score)
	}

	var tags []string
	for _, key := range order {
		scores := byType[key]
		declining := len(scores) >= 2 && scores[0] > scores[1]
		if scores[0] >= focusScoreThreshold || declining {
			tags = append(tags, focusTag(key))
		}
	}
	return tags
}

func focusTag(assessmentType string) string {
	for _, f := range assessmentFocus {
		if strings.Contains(assessmentType, f.match) {
			return f.tag
		}
	}
	return assessmentType
}

func allTimestamped(assessments []domain.Assessment) bool {
	for _, a := range assessments {
		if a.CompletedAt.IsZero() {
			return false
		}
	}
	return true
}
