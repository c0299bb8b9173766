package platform

import (
	"context"
)

// DashboardStats summarizes the user's learning activity.
type DashboardStats struct {
	TotalQuizzesTaken   int    `json:"total_quizzes_taken" yaml:"total_quizzes_taken"`
	TotalNotesGenerated int    `json:"total_notes_generated" yaml:"total_notes_generated"`
	CurrentLevel        string `json:"current_level" yaml:"current_level"`
	StudyTimeMinutes    int    `json:"study_time_minutes" yaml:"study_time_minutes"`
	StreakDays          int    `json:"streak_days" yaml:"streak_days"`
	CompletedRoadmaps   int    `json:"completed_roadmaps" yaml:"completed_roadmaps"`
	CurrentRoadmaps     int    `json:"current_roadmaps" yaml:"current_roadmaps"`
	Achievements        []any  `json:"achievements" yaml:"achievements"`
}

// DashboardStats fetches the dashboard summary for the authenticated user.
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.Get(ctx, "accounts/dashboard-stats/", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
