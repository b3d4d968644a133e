package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"quarry/internal/api"
	"quarry/internal/resilience"
)

type statusReport struct {
	Mode      resilience.Mode   `json:"mode"`
	Address   string            `json:"address"`
	Health    map[string]any    `json:"health,omitempty"`
	Service   api.ServiceStatus `json:"service,omitempty"`
	User      *api.User         `json:"user,omitempty"`
	HealthErr string            `json:"health_error,omitempty"`
	StatusErr string            `json:"status_error,omitempty"`
	UserErr   string            `json:"user_error,omitempty"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show service liveness, service status and session mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			gw, err := ctx.ensureGateway(cmd.Context())
			if err != nil {
				return err
			}

			report := statusReport{Address: cfg.BaseAddress()}
			// Probes are independent; each keeps its own error.
			g, gctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				health, err := gw.Health(gctx)
				report.Health, report.HealthErr = health, errText(err)
				return nil
			})
			g.Go(func() error {
				status, err := gw.ServiceStatus(gctx)
				report.Service, report.StatusErr = status, errText(err)
				return nil
			})
			g.Go(func() error {
				user, err := gw.Me(gctx)
				if err == nil {
					report.User = &user
				}
				report.UserErr = errText(err)
				return nil
			})
			_ = g.Wait()
			report.Mode = gw.Mode()

			if asJSON {
				return writeJSON(cmd, report)
			}
			renderStatusReport(cmd, report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func renderStatusReport(cmd *cobra.Command, report statusReport) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	modeKind := statusOK
	if report.Mode == resilience.ModeMock {
		modeKind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("Mode", modeKind, string(report.Mode), colorize))
	fmt.Fprintln(out, renderStatusLine("Address", statusInfo, orDash(report.Address), colorize))
	fmt.Fprintln(out, probeLine("Liveness", report.HealthErr, "reachable", colorize))
	fmt.Fprintln(out, probeLine("Service status", report.StatusErr, summarizeStatus(report.Service), colorize))
	user := "not signed in"
	if report.User != nil {
		user = report.User.Email
	}
	fmt.Fprintln(out, probeLine("Account", report.UserErr, user, colorize))
}

func probeLine(label, errMsg, okMsg string, colorize bool) string {
	if errMsg != "" {
		return renderStatusLine(label, statusError, errMsg, colorize)
	}
	return renderStatusLine(label, statusOK, okMsg, colorize)
}

func summarizeStatus(status api.ServiceStatus) string {
	if len(status) == 0 {
		return "no details"
	}
	keys := slices.Sorted(maps.Keys(status))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, status[k]))
	}
	return strings.Join(parts, " ")
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
