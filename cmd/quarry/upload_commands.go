package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"quarry/internal/api"
	"quarry/internal/config"
	"quarry/internal/poller"
	"quarry/internal/remote"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var owner string
	var watch bool

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a media file for processing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer file.Close()

			gw, err := ctx.ensureGateway(cmd.Context())
			if err != nil {
				return err
			}
			result, err := gw.Upload(cmd.Context(), remote.UploadFile{
				Name:    filepath.Base(path),
				Content: file,
				OwnerID: strings.TrimSpace(owner),
			})
			if err != nil {
				return err
			}
			store, err := ctx.ensureStore(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.SetTrackedAsset(cmd.Context(), result.Asset.ID); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Uploaded %s as %s (%s)\n", result.Asset.Filename, result.Asset.ID, orDash(string(result.Status.Status)))
			if !watch {
				return nil
			}
			return watchAsset(cmd, ctx, result.Asset.ID)
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "Owner ID recorded with the upload")
	cmd.Flags().BoolVar(&watch, "watch", false, "Follow processing until it finishes")
	return cmd
}

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [asset-id]",
		Short: "Follow an upload's processing status",
		Long:  "Follow an upload's processing status. Without an ID, the most recently uploaded or watched asset is used.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore(cmd.Context())
			if err != nil {
				return err
			}
			assetID := ""
			if len(args) == 1 {
				assetID = strings.TrimSpace(args[0])
			}
			if assetID == "" {
				if assetID, err = store.TrackedAsset(cmd.Context()); err != nil {
					return err
				}
			}
			if assetID == "" {
				return errors.New("no asset to watch; pass an asset ID or upload a file first")
			}
			if err := store.SetTrackedAsset(cmd.Context(), assetID); err != nil {
				return err
			}
			return watchAsset(cmd, ctx, assetID)
		},
	}
}

func watchAsset(cmd *cobra.Command, ctx *commandContext, assetID string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	gw, err := ctx.ensureGateway(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p := poller.New(gw, cfg.PollInterval(), ctx.ensureLogger())
	tracker := poller.NewTracker(cmd.Context(), p, func(status api.UploadStatus) {
		line := fmt.Sprintf("%s  %s", status.AssetID, status.Status)
		if status.Message != "" {
			line += "  " + status.Message
		}
		fmt.Fprintln(out, line)
	})
	defer tracker.Close()

	snapshot := tracker.Track(assetID).Wait()
	switch snapshot.State {
	case poller.StateTerminal:
		if snapshot.Status.TranscriptID != "" {
			fmt.Fprintf(out, "Transcript: %s\n", snapshot.Status.TranscriptID)
		}
		if snapshot.Status.Status != api.ProcessingCompleted {
			return fmt.Errorf("processing ended with status %s", snapshot.Status.Status)
		}
		return nil
	case poller.StateErrored:
		return snapshot.Err
	default:
		return cmd.Context().Err()
	}
}

func newAssetsCommand(ctx *commandContext) *cobra.Command {
	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "Inspect uploaded media",
	}
	assetsCmd.AddCommand(newAssetsListCommand(ctx))
	assetsCmd.AddCommand(newAssetsShowCommand(ctx))
	return assetsCmd
}

func newAssetsListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List uploaded assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := ctx.ensureGateway(cmd.Context())
			if err != nil {
				return err
			}
			assets, err := gw.ListUploads(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, assets)
			}
			if len(assets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No assets")
				return nil
			}
			rows := make([][]string, 0, len(assets))
			for _, a := range assets {
				rows = append(rows, []string{a.ID, a.Filename, string(a.AssetType), formatSize(a.SizeBytes), formatAge(a.CreatedAt)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{col("ID"), prose("File", 40), col("Type"), num("Size"), col("Uploaded")},
				rows,
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newAssetsShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <asset-id>",
		Short: "Show an asset and its processing status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireArg(args, "asset ID")
			if err != nil {
				return err
			}
			gw, err := ctx.ensureGateway(cmd.Context())
			if err != nil {
				return err
			}
			asset, err := gw.GetUpload(cmd.Context(), id)
			if err != nil {
				return err
			}
			status, err := gw.UploadStatus(cmd.Context(), id)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, struct {
					Asset  api.Asset        `json:"asset"`
					Status api.UploadStatus `json:"status"`
				}{asset, status})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:          %s\n", asset.ID)
			fmt.Fprintf(out, "File:        %s\n", asset.Filename)
			fmt.Fprintf(out, "Type:        %s (%s)\n", orDash(string(asset.AssetType)), orDash(asset.ContentType))
			fmt.Fprintf(out, "Size:        %s\n", formatSize(asset.SizeBytes))
			fmt.Fprintf(out, "Uploaded:    %s\n", formatTime(asset.CreatedAt))
			fmt.Fprintf(out, "Status:      %s\n", orDash(string(status.Status)))
			if status.TranscriptID != "" {
				fmt.Fprintf(out, "Transcript:  %s\n", status.TranscriptID)
			}
			if status.Message != "" {
				fmt.Fprintf(out, "Message:     %s\n", status.Message)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
