package workspace_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"quarry/internal/testsupport"
	"quarry/internal/workspace"
)

func TestOpenAppliesMigrationsOnce(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	store, err := workspace.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if store.Path() != filepath.Join(cfg.Paths.StateDir, workspace.FileName) {
		t.Fatalf("path = %s", store.Path())
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := workspace.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	versions, err := reopened.Versions(ctx)
	if err != nil {
		t.Fatalf("Versions: %v", err)
	}
	if diff := cmp.Diff([]string{"001_initial"}, versions); diff != "" {
		t.Fatalf("versions mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectionRoundTrip(t *testing.T) {
	store := testsupport.MustOpenWorkspace(t, testsupport.NewConfig(t))
	ctx := context.Background()

	empty, err := store.LoadSelection(ctx)
	if err != nil {
		t.Fatalf("LoadSelection: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil selection, got %#v", empty)
	}

	if err := store.SaveSelection(ctx, []string{"q3", "q1", "q3", "", "q2"}); err != nil {
		t.Fatalf("SaveSelection: %v", err)
	}
	got, err := store.LoadSelection(ctx)
	if err != nil {
		t.Fatalf("LoadSelection: %v", err)
	}
	if diff := cmp.Diff([]string{"q3", "q1", "q2"}, got); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}

	if err := store.SaveSelection(ctx, nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, _ = store.LoadSelection(ctx)
	if len(got) != 0 {
		t.Fatalf("selection not cleared: %v", got)
	}
}

func TestSettings(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenWorkspace(t, cfg)
	ctx := context.Background()

	if tok, err := store.Token(ctx); err != nil || tok != "" {
		t.Fatalf("initial token = %q, %v", tok, err)
	}
	if err := store.SetToken(ctx, "abc"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if err := store.SetToken(ctx, "def"); err != nil {
		t.Fatalf("SetToken overwrite: %v", err)
	}
	if err := store.SetTrackedAsset(ctx, "asset-1"); err != nil {
		t.Fatalf("SetTrackedAsset: %v", err)
	}

	// A second handle sees the same state.
	other, err := workspace.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer other.Close()
	if tok, _ := other.Token(ctx); tok != "def" {
		t.Fatalf("token = %q", tok)
	}
	if asset, _ := other.TrackedAsset(ctx); asset != "asset-1" {
		t.Fatalf("tracked asset = %q", asset)
	}

	if err := store.SetToken(ctx, ""); err != nil {
		t.Fatalf("clear token: %v", err)
	}
	if tok, _ := other.Token(ctx); tok != "" {
		t.Fatalf("token not cleared: %q", tok)
	}
}
