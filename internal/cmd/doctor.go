package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/evolvedu/internal/health"
	"github.com/felixgeelhaar/evolvedu/internal/ux"
)

// DoctorReport is the structured output of `evolvedu doctor`.
type DoctorReport struct {
	Status health.Status   `json:"status" yaml:"status"`
	APIURL string          `json:"api_url" yaml:"api_url"`
	Checks []health.Report `json:"checks" yaml:"checks"`
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the API connection, session storage and stored session",
		Long: `Run diagnostics for the current configuration.

Checks include:
  - the API answering at the configured base URL
  - the session storage directory accepting writes
  - the stored session and its token expiry

The probe sent to the API carries no credentials, so running doctor never
ends your session.

Examples:
  evolvedu doctor
  evolvedu doctor --format json`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	r, err := mustRuntime(cmd)
	if err != nil {
		return err
	}
	svc, err := r.account()
	if err != nil {
		return err
	}

	manager := health.NewManager(
		health.NewAPIChecker(r.baseURL, &http.Client{Timeout: r.cfg.HTTPTimeout}),
		health.NewStorageChecker(r.kv, r.kv.Dir()),
		health.NewSessionChecker(svc),
	).WithTimeout(r.cfg.HTTPTimeout)

	var reports []health.Report
	err = r.call("Running checks...", func(ctx context.Context) error {
		reports = manager.Check(ctx)
		return ctx.Err()
	})
	if err != nil {
		return err
	}

	report := DoctorReport{
		Status: health.OverallStatus(reports),
		APIURL: r.baseURL,
		Checks: reports,
	}
	r.logger.Debug("doctor finished", "status", report.Status)
	if err := r.render(report, doctorPanel(report)); err != nil {
		return err
	}

	if report.Status == health.StatusUnhealthy {
		failed := 0
		for _, c := range reports {
			if c.Result.Status == health.StatusUnhealthy {
				failed++
			}
		}
		return fmt.Errorf("%d of %d checks failed", failed, len(reports))
	}
	return nil
}

func doctorPanel(report DoctorReport) ux.Panel {
	p := ux.Panel{Title: fmt.Sprintf("Diagnostics for %s", report.APIURL)}
	for _, c := range report.Checks {
		line := fmt.Sprintf("%s %s", c.Result.Status.Symbol(), c.Result.Message)
		if c.Result.Status != health.StatusHealthy && c.Result.Hint != "" {
			line += " (" + c.Result.Hint + ")"
		}
		p.Add(c.Name, line)
	}
	p.Add("Overall", report.Status.String())
	return p
}
