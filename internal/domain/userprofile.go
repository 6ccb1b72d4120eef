package domain

import "time"

type UserProfile struct {
	UserID        string    `json:"userId"`
	Approach      Approach  `json:"approach"`
	WellnessScore float64   `json:"wellnessScore"`
	RecentMood    string    `json:"recentMood,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DefaultUserProfile is used when a user has no stored profile.
func DefaultUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:        userID,
		Approach:      ApproachHybrid,
		WellnessScore: 70,
	}
}
