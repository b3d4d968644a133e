package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"quarry/internal/api"
	"quarry/internal/config"
	"quarry/internal/curation"
	"quarry/internal/export"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:     "export",
		Aliases: []string{"exports"},
		Short:   "Select quotes and produce exports",
	}
	exportCmd.AddCommand(newSelectionEditCommand(ctx, "select", "Add quotes to the export selection", func(s *curation.Selection, id string) { s.Add(id) }))
	exportCmd.AddCommand(newSelectionEditCommand(ctx, "unselect", "Remove quotes from the export selection", func(s *curation.Selection, id string) { s.Remove(id) }))
	exportCmd.AddCommand(newSelectionEditCommand(ctx, "toggle", "Toggle quotes in the export selection", func(s *curation.Selection, id string) { s.Toggle(id) }))
	exportCmd.AddCommand(newSelectAllCommand(ctx))
	exportCmd.AddCommand(newSelectionClearCommand(ctx))
	exportCmd.AddCommand(newSelectionShowCommand(ctx))
	exportCmd.AddCommand(newExportSubmitCommand(ctx))
	exportCmd.AddCommand(newExportListCommand(ctx))
	exportCmd.AddCommand(newExportShowCommand(ctx))
	exportCmd.AddCommand(newExportPreviewCommand(ctx))
	exportCmd.AddCommand(newExportDownloadCommand(ctx))
	return exportCmd
}

// updateSelection loads the persisted selection, applies fn and saves it.
func updateSelection(cmd *cobra.Command, ctx *commandContext, fn func(*curation.Selection)) (*curation.Selection, error) {
	store, err := ctx.ensureStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	ids, err := store.LoadSelection(cmd.Context())
	if err != nil {
		return nil, err
	}
	sel := curation.NewSelection(ids...)
	fn(sel)
	if err := store.SaveSelection(cmd.Context(), sel.IDs()); err != nil {
		return nil, err
	}
	return sel, nil
}

func newSelectionEditCommand(ctx *commandContext, use, short string, apply func(*curation.Selection, string)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <quote-id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := updateSelection(cmd, ctx, func(s *curation.Selection) {
				for _, id := range args {
					apply(s, strings.TrimSpace(id))
				}
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d quotes selected\n", sel.Len())
			return nil
		},
	}
}

func newSelectAllCommand(ctx *commandContext) *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "select-all",
		Short: "Select every quote matching the filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			quotes, err := loadVisible(cmd, ctx, &flags)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(quotes))
			for _, q := range quotes {
				ids = append(ids, q.ID)
			}
			sel, err := updateSelection(cmd, ctx, func(s *curation.Selection) { s.SelectAll(ids) })
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d quotes selected\n", sel.Len())
			return nil
		},
	}
	flags.register(cmd, string(curation.StatusApproved))
	return cmd
}

func newSelectionClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the export selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := updateSelection(cmd, ctx, (*curation.Selection).Clear); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Selection cleared")
			return nil
		},
	}
}

func newSelectionShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "selection",
		Short: "Show the export selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore(cmd.Context())
			if err != nil {
				return err
			}
			ids, err := store.LoadSelection(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, ids)
			}
			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(out, "Selection is empty")
				return nil
			}
			for i, id := range ids {
				fmt.Fprintf(out, "%d. %s\n", i+1, id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newWorkflow(cmd *cobra.Command, ctx *commandContext) (*export.Workflow, error) {
	gw, err := ctx.ensureGateway(cmd.Context())
	if err != nil {
		return nil, err
	}
	return export.NewWorkflow(gw, ctx.ensureLogger()), nil
}

func newExportSubmitCommand(ctx *commandContext) *cobra.Command {
	var (
		format   string
		title    string
		author   string
		quoteIDs []string
		wait     bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit the selected quotes as an export job",
		Long: "Submit the selected quotes as an export job. Formats: " + formatList() + ".\n" +
			"Title and author are only used by formats that render a byline.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			ids := quoteIDs
			if len(ids) == 0 {
				store, err := ctx.ensureStore(cmd.Context())
				if err != nil {
					return err
				}
				if ids, err = store.LoadSelection(cmd.Context()); err != nil {
					return err
				}
			}
			workflow, err := newWorkflow(cmd, ctx)
			if err != nil {
				return err
			}
			job, err := workflow.Submit(cmd.Context(), export.Form{
				Format:   api.ExportFormat(strings.ToLower(strings.TrimSpace(format))),
				Title:    title,
				Author:   author,
				QuoteIDs: ids,
			})
			if err != nil {
				return err
			}
			if wait {
				if job, err = workflow.Await(cmd.Context(), job, cfg.PollInterval()); err != nil {
					return err
				}
			}
			if asJSON {
				return writeJSON(cmd, job)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Export %s (%s, %d quotes): %s\n", job.ID, job.Format, len(job.QuoteIDs), job.Status)
			if job.Status == api.JobFailed && job.ErrorMessage != "" {
				return fmt.Errorf("export %s failed: %s", job.ID, job.ErrorMessage)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(api.FormatPlainText), "Output format")
	cmd.Flags().StringVar(&title, "title", "", "Title for byline formats")
	cmd.Flags().StringVar(&author, "author", "", "Author for byline formats")
	cmd.Flags().StringSliceVar(&quoteIDs, "quote", nil, "Quote IDs to export instead of the saved selection")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait until the job finishes")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func formatList() string {
	names := make([]string, 0, len(api.ExportFormats))
	for _, f := range api.ExportFormats {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func newExportListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List export jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := ctx.ensureGateway(cmd.Context())
			if err != nil {
				return err
			}
			jobs, err := gw.ListExports(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, jobs)
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No exports")
				return nil
			}
			rows := make([][]string, 0, len(jobs))
			for _, j := range jobs {
				rows = append(rows, []string{
					j.ID, string(j.Format), string(j.Status), strconv.Itoa(len(j.QuoteIDs)),
					orDash(j.Title), formatAge(j.CreatedAt),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{col("ID"), col("Format"), col("Status"), num("Quotes"), prose("Title", 32), col("Created")},
				rows,
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// refreshJob loads the job named by args[0].
func refreshJob(cmd *cobra.Command, ctx *commandContext, args []string) (*export.Workflow, api.ExportJob, error) {
	id, err := requireArg(args, "export ID")
	if err != nil {
		return nil, api.ExportJob{}, err
	}
	workflow, err := newWorkflow(cmd, ctx)
	if err != nil {
		return nil, api.ExportJob{}, err
	}
	job, err := workflow.Refresh(cmd.Context(), id)
	return workflow, job, err
}

func newExportShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <export-id>",
		Short: "Show an export job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, job, err := refreshJob(cmd, ctx, args)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, job)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:       %s\n", job.ID)
			fmt.Fprintf(out, "Format:   %s\n", job.Format)
			fmt.Fprintf(out, "Status:   %s\n", job.Status)
			fmt.Fprintf(out, "Title:    %s\n", orDash(job.Title))
			fmt.Fprintf(out, "Author:   %s\n", orDash(job.Author))
			fmt.Fprintf(out, "Quotes:   %s\n", orDash(strings.Join(job.QuoteIDs, ", ")))
			fmt.Fprintf(out, "Created:  %s\n", formatTime(job.CreatedAt))
			if job.ErrorMessage != "" {
				fmt.Fprintf(out, "Error:    %s\n", job.ErrorMessage)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newExportPreviewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <export-id>",
		Short: "Print the rendered output of a completed export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workflow, job, err := refreshJob(cmd, ctx, args)
			if err != nil {
				return err
			}
			preview, err := workflow.Preview(cmd.Context(), job)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, preview.Content)
			if !strings.HasSuffix(preview.Content, "\n") {
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func newExportDownloadCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "download <export-id>",
		Short: "Save the output of a completed export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			target := cfg.Paths.DownloadDir
			if strings.TrimSpace(dir) != "" {
				if target, err = config.ExpandPath(dir); err != nil {
					return err
				}
			}
			workflow, job, err := refreshJob(cmd, ctx, args)
			if err != nil {
				return err
			}
			download, err := workflow.Download(cmd.Context(), job, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s, %d bytes)\n", download.Path, download.MediaType, download.Size)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to write into (defaults to paths.download_dir)")
	return cmd
}
