package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"quarry/internal/api"
	"quarry/internal/curation"
)

func newQuotesCommand(ctx *commandContext) *cobra.Command {
	quotesCmd := &cobra.Command{
		Use:     "quotes",
		Aliases: []string{"quote"},
		Short:   "Curate extracted quotes",
	}
	quotesCmd.AddCommand(newQuotesListCommand(ctx))
	quotesCmd.AddCommand(newQuotesExtractCommand(ctx))
	quotesCmd.AddCommand(newQuotesReviewCommand(ctx, "approve", "Mark a quote approved", (*curation.Engine).Approve))
	quotesCmd.AddCommand(newQuotesReviewCommand(ctx, "reject", "Clear a quote's approval", (*curation.Engine).Reject))
	quotesCmd.AddCommand(newQuotesTagCommand(ctx))
	quotesCmd.AddCommand(newQuotesEditCommand(ctx))
	quotesCmd.AddCommand(newQuotesDeleteCommand(ctx))
	return quotesCmd
}

// filterFlags are the listing filters shared by quotes list and
// export select-all.
type filterFlags struct {
	asset         string
	status        string
	minConfidence float64
	tags          string
}

func (f *filterFlags) register(cmd *cobra.Command, defaultStatus string) {
	cmd.Flags().StringVar(&f.asset, "asset", "", "Only quotes from this asset")
	cmd.Flags().StringVar(&f.status, "status", defaultStatus, "all, approved or pending")
	cmd.Flags().Float64Var(&f.minConfidence, "min-confidence", 0, "Minimum confidence (0-1)")
	cmd.Flags().StringVar(&f.tags, "tags", "", "Space-separated tag fragments; every one must match")
}

func (f *filterFlags) options() (curation.LoadOptions, error) {
	status, err := curation.ParseStatusFilter(f.status)
	if err != nil {
		return curation.LoadOptions{}, err
	}
	return curation.LoadOptions{AssetID: f.asset, Status: status, MinConfidence: f.minConfidence}, nil
}

// loadVisible loads quotes with the server filters and applies the tag
// filter locally.
func loadVisible(cmd *cobra.Command, ctx *commandContext, flags *filterFlags) ([]api.Quote, error) {
	opts, err := flags.options()
	if err != nil {
		return nil, err
	}
	engine, err := newEngine(cmd, ctx)
	if err != nil {
		return nil, err
	}
	if _, err := engine.Load(cmd.Context(), opts); err != nil {
		return nil, err
	}
	return engine.Visible(flags.tags), nil
}

func newEngine(cmd *cobra.Command, ctx *commandContext) (*curation.Engine, error) {
	gw, err := ctx.ensureGateway(cmd.Context())
	if err != nil {
		return nil, err
	}
	return curation.NewEngine(gw, ctx.ensureLogger()), nil
}

func newQuotesListCommand(ctx *commandContext) *cobra.Command {
	var flags filterFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quotes",
		RunE: func(cmd *cobra.Command, args []string) error {
			quotes, err := loadVisible(cmd, ctx, &flags)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, quotes)
			}
			if len(quotes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No quotes match")
				return nil
			}
			var selected map[string]bool
			if store, err := ctx.ensureStore(cmd.Context()); err == nil {
				if ids, err := store.LoadSelection(cmd.Context()); err == nil {
					selected = make(map[string]bool, len(ids))
					for _, id := range ids {
						selected[id] = true
					}
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderQuotes(quotes, selected))
			return nil
		},
	}
	flags.register(cmd, string(curation.StatusAll))
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func renderQuotes(quotes []api.Quote, selected map[string]bool) string {
	rows := make([][]string, 0, len(quotes))
	for _, q := range quotes {
		mark := ""
		if selected[q.ID] {
			mark = "*"
		}
		rows = append(rows, []string{
			mark, q.ID, yesNo(q.Approved), formatConfidence(q.Confidence),
			formatSeconds(q.Start), strings.Join(q.Tags, ", "), truncate(q.Text, 56),
		})
	}
	return renderTable(
		[]column{col(""), col("ID"), col("Approved"), num("Conf"), num("At"), prose("Tags", 24), prose("Text", 56)},
		rows,
	)
}

func newQuotesExtractCommand(ctx *commandContext) *cobra.Command {
	var maxCandidates, minLength int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "extract <transcript-id>",
		Short: "Ask the service to propose quotes from a transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireArg(args, "transcript ID")
			if err != nil {
				return err
			}
			gw, err := ctx.ensureGateway(cmd.Context())
			if err != nil {
				return err
			}
			quotes, err := gw.ExtractQuotes(cmd.Context(), api.ExtractRequest{
				TranscriptID:  id,
				MaxCandidates: maxCandidates,
				MinLength:     minLength,
			})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, quotes)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Extracted %d quotes from %s\n", len(quotes), id)
			if len(quotes) > 0 {
				fmt.Fprintln(out, renderQuotes(quotes, nil))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxCandidates, "max", 0, "Maximum number of candidates (service default when 0)")
	cmd.Flags().IntVar(&minLength, "min-length", 0, "Minimum quote length in characters")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newQuotesReviewCommand(ctx *commandContext, use, short string, apply func(*curation.Engine, context.Context, string) (api.Quote, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <quote-id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(cmd, ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, id := range args {
				q, err := apply(engine, cmd.Context(), strings.TrimSpace(id))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s approved=%s\n", q.ID, yesNo(q.Approved))
			}
			return nil
		},
	}
}

func newQuotesTagCommand(ctx *commandContext) *cobra.Command {
	var tags string

	cmd := &cobra.Command{
		Use:   "tag <quote-id>",
		Short: "Replace a quote's tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireArg(args, "quote ID")
			if err != nil {
				return err
			}
			engine, err := newEngine(cmd, ctx)
			if err != nil {
				return err
			}
			q, err := engine.SetTags(cmd.Context(), id, curation.ParseTags(tags))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s tags=%s\n", q.ID, orDash(strings.Join(q.Tags, ",")))
			return nil
		},
	}
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags (empty clears)")
	return cmd
}

func newQuotesEditCommand(ctx *commandContext) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "edit <quote-id>",
		Short: "Replace a quote's text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireArg(args, "quote ID")
			if err != nil {
				return err
			}
			engine, err := newEngine(cmd, ctx)
			if err != nil {
				return err
			}
			q, err := engine.EditText(cmd.Context(), id, text)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", q.ID, q.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "New quote text")
	return cmd
}

func newQuotesDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <quote-id>",
		Short: "Delete a quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireArg(args, "quote ID")
			if err != nil {
				return err
			}
			engine, err := newEngine(cmd, ctx)
			if err != nil {
				return err
			}
			if err := engine.Delete(cmd.Context(), id); err != nil {
				return err
			}
			// A deleted quote cannot stay selected for export.
			if store, err := ctx.ensureStore(cmd.Context()); err == nil {
				if ids, err := store.LoadSelection(cmd.Context()); err == nil {
					sel := curation.NewSelection(ids...)
					if sel.Remove(id) {
						if err := store.SaveSelection(cmd.Context(), sel.IDs()); err != nil {
							return err
						}
					}
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}
}
