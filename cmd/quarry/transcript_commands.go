package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"quarry/internal/api"
	"quarry/internal/language"
	"quarry/internal/transcript"
)

func newTranscriptCommand(ctx *commandContext) *cobra.Command {
	transcriptCmd := &cobra.Command{
		Use:     "transcript",
		Aliases: []string{"transcripts"},
		Short:   "Review and edit transcripts",
	}
	transcriptCmd.AddCommand(newTranscriptListCommand(ctx))
	transcriptCmd.AddCommand(newTranscriptShowCommand(ctx))
	transcriptCmd.AddCommand(newTranscriptSaveCommand(ctx))
	transcriptCmd.AddCommand(newTranscriptAppendCommand(ctx))
	transcriptCmd.AddCommand(newTranscriptVersionsCommand(ctx))
	transcriptCmd.AddCommand(newTranscriptAuditCommand(ctx))
	return transcriptCmd
}

// loadEditor returns an editor holding the transcript named by args[0].
func loadEditor(cmd *cobra.Command, ctx *commandContext, args []string) (*transcript.Editor, error) {
	id, err := requireArg(args, "transcript ID")
	if err != nil {
		return nil, err
	}
	gw, err := ctx.ensureGateway(cmd.Context())
	if err != nil {
		return nil, err
	}
	editor := transcript.NewEditor(gw, ctx.ensureLogger())
	if _, err := editor.Load(cmd.Context(), id); err != nil {
		return nil, err
	}
	return editor, nil
}

func newTranscriptListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := ctx.ensureGateway(cmd.Context())
			if err != nil {
				return err
			}
			transcripts, err := gw.ListTranscripts(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, transcripts)
			}
			if len(transcripts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No transcripts")
				return nil
			}
			rows := make([][]string, 0, len(transcripts))
			for _, t := range transcripts {
				rows = append(rows, []string{
					t.ID, t.AssetID, orDash(language.DisplayName(t.Language)), orDash(t.Status),
					strconv.Itoa(len(t.Segments)), formatAge(t.UpdatedAt),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{col("ID"), col("Asset"), col("Language"), col("Status"), num("Segments"), col("Updated")},
				rows,
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newTranscriptShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON, segments bool

	cmd := &cobra.Command{
		Use:   "show <transcript-id>",
		Short: "Print a transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := loadEditor(cmd, ctx, args)
			if err != nil {
				return err
			}
			t, _ := editor.Current()
			if asJSON {
				return writeJSON(cmd, t)
			}
			out := cmd.OutOrStdout()
			if name := language.DisplayName(t.Language); name != "" {
				fmt.Fprintf(out, "# %s (%s)\n", t.ID, name)
			}
			if !segments {
				fmt.Fprintln(out, t.Text)
				return nil
			}
			rows := make([][]string, 0, len(t.Segments))
			for i, seg := range t.Segments {
				rows = append(rows, []string{
					strconv.Itoa(i + 1), formatSeconds(seg.Start), formatSeconds(seg.End),
					orDash(seg.Speaker), seg.Text,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]column{num("#"), num("Start"), num("End"), col("Speaker"), prose("Text", 64)},
				rows,
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&segments, "segments", false, "Show timed segments instead of the full text")
	return cmd
}

func newTranscriptSaveCommand(ctx *commandContext) *cobra.Command {
	var text, file string

	cmd := &cobra.Command{
		Use:   "save <transcript-id>",
		Short: "Replace a transcript's full text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readTextInput(cmd, text, file)
			if err != nil {
				return err
			}
			editor, err := loadEditor(cmd, ctx, args)
			if err != nil {
				return err
			}
			saved, err := editor.Save(cmd.Context(), body)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d characters)\n", saved.ID, len([]rune(saved.Text)))
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "New transcript text")
	cmd.Flags().StringVar(&file, "file", "", "Read the new text from a file (- for stdin)")
	return cmd
}

func readTextInput(cmd *cobra.Command, text, file string) (string, error) {
	switch {
	case text != "" && file != "":
		return "", errors.New("use either --text or --file, not both")
	case text != "":
		return text, nil
	case file == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(data), nil
	}
	return "", errors.New("--text or --file is required")
}

func newTranscriptAppendCommand(ctx *commandContext) *cobra.Command {
	var (
		text     string
		speaker  string
		start    float64
		end      float64
		fromChar int
		toChar   int
	)

	cmd := &cobra.Command{
		Use:   "append <transcript-id>",
		Short: "Add a timed segment",
		Long: "Add a timed segment. The segment text comes from --text, or from the\n" +
			"character range --from/--to of the transcript text.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := loadEditor(cmd, ctx, args)
			if err != nil {
				return err
			}
			draft := api.Segment{Text: text}
			if cmd.Flags().Changed("from") || cmd.Flags().Changed("to") {
				if strings.TrimSpace(text) != "" {
					return errors.New("use either --text or --from/--to, not both")
				}
				if draft, err = editor.SelectText(fromChar, toChar); err != nil {
					return err
				}
			}
			draft.Start, draft.End, draft.Speaker = start, end, speaker

			updated, err := editor.AppendSegment(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added segment %s-%s to %s (%d segments)\n",
				formatSeconds(draft.Start), formatSeconds(draft.End), updated.ID, len(updated.Segments))
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "Segment text")
	cmd.Flags().StringVar(&speaker, "speaker", "", "Speaker label")
	cmd.Flags().Float64Var(&start, "start", 0, "Segment start in seconds")
	cmd.Flags().Float64Var(&end, "end", 0, "Segment end in seconds")
	cmd.Flags().IntVar(&fromChar, "from", 0, "First character of the selection (0-based)")
	cmd.Flags().IntVar(&toChar, "to", 0, "Character after the selection")
	return cmd
}

func newTranscriptVersionsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "versions <transcript-id>",
		Short: "List saved revisions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := loadEditor(cmd, ctx, args)
			if err != nil {
				return err
			}
			versions, err := editor.Versions(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, versions)
			}
			rows := make([][]string, 0, len(versions))
			for _, v := range versions {
				rows = append(rows, []string{strconv.Itoa(v.Version), formatTime(v.CreatedAt), truncate(v.Text, 60)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{num("Version"), col("Saved"), prose("Text", 60)},
				rows,
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newTranscriptAuditCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "audit <transcript-id>",
		Short: "List changes applied to a transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := loadEditor(cmd, ctx, args)
			if err != nil {
				return err
			}
			entries, err := editor.Audit(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, entries)
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{formatTime(e.CreatedAt), e.Action, orDash(e.Actor), orDash(e.Detail)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{col("When"), col("Action"), col("Actor"), prose("Detail", 48)},
				rows,
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
