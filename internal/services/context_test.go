package services

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	got, ok := RequestIDFromContext(ctx)
	if !ok || got != "req-1" {
		t.Fatalf("expected req-1, got %q (ok=%v)", got, ok)
	}
	if WithRequestID(ctx, "") != ctx {
		t.Fatal("expected empty id to leave context unchanged")
	}
}

func TestAssetIDMissing(t *testing.T) {
	if _, ok := AssetIDFromContext(context.Background()); ok {
		t.Fatal("expected no asset id")
	}
	ctx := WithAssetID(context.Background(), "asset-9")
	if got, ok := AssetIDFromContext(ctx); !ok || got != "asset-9" {
		t.Fatalf("expected asset-9, got %q", got)
	}
}
