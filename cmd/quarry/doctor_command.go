package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"quarry/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories and service readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			checkCfg := *cfg
			if checkCfg.API.Token == "" {
				if store, err := ctx.ensureStore(cmd.Context()); err == nil {
					checkCfg.API.Token, _ = store.Token(cmd.Context())
				}
			}

			results := preflight.RunAll(cmd.Context(), &checkCfg)
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}
			if preflight.Failed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}
