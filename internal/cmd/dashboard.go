package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/evolvedu/internal/errors"
	"github.com/felixgeelhaar/evolvedu/internal/platform"
	"github.com/felixgeelhaar/evolvedu/internal/ux"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show your learning stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := mustRuntime(cmd)
			if err != nil {
				return err
			}
			svc, err := r.account()
			if err != nil {
				return err
			}
			st := svc.Status()
			if !st.LoggedIn {
				return errors.NewNotLoggedInError()
			}

			var stats *platform.DashboardStats
			err = r.call("Loading dashboard...", func(ctx context.Context) (err error) {
				stats, err = r.client.DashboardStats(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return r.render(stats, dashboardPanel(st.User.DisplayName(), stats))
		},
	}
}

func dashboardPanel(name string, s *platform.DashboardStats) ux.Panel {
	p := ux.Panel{Title: fmt.Sprintf("Dashboard for %s", name)}
	p.Add("Level", s.CurrentLevel).
		Add("Quizzes taken", strconv.Itoa(s.TotalQuizzesTaken)).
		Add("Notes generated", strconv.Itoa(s.TotalNotesGenerated)).
		Add("Study time", fmt.Sprintf("%d min", s.StudyTimeMinutes)).
		Add("Streak", fmt.Sprintf("%d days", s.StreakDays)).
		Add("Roadmaps", fmt.Sprintf("%d active, %d completed", s.CurrentRoadmaps, s.CompletedRoadmaps)).
		Add("Achievements", strconv.Itoa(len(s.Achievements)))
	return p
}
