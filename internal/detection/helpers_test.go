package detection

import (
	"time"

	"github.com/alexanderramin/haven/internal/domain"
)

var baseTime = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

// moodsNewestFirst builds entries whose timestamps agree with slice order.
func moodsNewestFirst(moods ...string) []domain.MoodEntry {
	out := make([]domain.MoodEntry, len(moods))
	for i, m := range moods {
		out[i] = domain.MoodEntry{Mood: m, Timestamp: baseTime.Add(-time.Duration(i) * time.Hour)}
	}
	return out
}

func messages(texts ...string) []domain.UserMessage {
	out := make([]domain.UserMessage, len(texts))
	for i, t := range texts {
		out[i] = domain.UserMessage{Text: t, Timestamp: baseTime.Add(-time.Duration(i) * time.Minute)}
	}
	return out
}
