package gateway_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"quarry/internal/api"
	"quarry/internal/gateway"
	"quarry/internal/logging"
	"quarry/internal/mockdata"
	"quarry/internal/remote"
	"quarry/internal/testsupport"
)

func TestGatewayServesLiveData(t *testing.T) {
	svc := testsupport.NewFakeService(t)
	gw := gateway.FromConfig(testsupport.NewConfig(t, testsupport.WithBaseURL(svc.URL)), logging.NewNop())
	ctx := context.Background()

	status, err := gw.ServiceStatus(ctx)
	if err != nil {
		t.Fatalf("ServiceStatus: %v", err)
	}
	if status["mode"] != "live" || gw.MockMode() {
		t.Fatalf("expected live data, got %v (mock=%v)", status, gw.MockMode())
	}
	quotes, err := gw.ListQuotes(ctx, api.QuoteQuery{Status: "approved"})
	if err != nil {
		t.Fatalf("ListQuotes: %v", err)
	}
	if len(quotes) != 3 {
		t.Fatalf("expected 3 approved quotes, got %d", len(quotes))
	}
	if n := len(svc.RequestsTo(http.MethodGet, "/api/quotes")); n != 1 {
		t.Fatalf("expected one quotes request, got %d", n)
	}
}

func TestGatewayFallsBackForRestOfSession(t *testing.T) {
	svc := testsupport.NewFakeService(t)
	gw := gateway.New(
		remote.New(remote.Config{BaseURL: svc.URL}),
		mockdata.NewProvider(),
		nil,
	)
	ctx := context.Background()
	svc.FailWith(http.StatusNotFound, "Not Found")

	job, err := gw.GetExport(ctx, "missing")
	if err != nil {
		t.Fatalf("GetExport: %v", err)
	}
	if job.ID != mockdata.ExportID || !gw.MockMode() {
		t.Fatalf("expected mock export, got %+v (mock=%v)", job, gw.MockMode())
	}
	seen := len(svc.Requests())

	if _, err := gw.ListQuotes(ctx, api.QuoteQuery{}); err != nil {
		t.Fatalf("ListQuotes: %v", err)
	}
	if _, err := gw.UploadStatus(ctx, mockdata.AssetID); err != nil {
		t.Fatalf("UploadStatus: %v", err)
	}
	if err := gw.DeleteQuote(ctx, "quote-demo-006"); err != nil {
		t.Fatalf("DeleteQuote: %v", err)
	}
	quotes, err := gw.ListQuotes(ctx, api.QuoteQuery{})
	if err != nil {
		t.Fatalf("ListQuotes: %v", err)
	}
	if len(quotes) != 5 {
		t.Fatalf("mock delete not reflected: %d quotes", len(quotes))
	}
	if got := len(svc.Requests()); got != seen {
		t.Fatalf("network touched after fallback: %d requests, want %d", got, seen)
	}
}

func TestGatewaySurfacesRemoteErrors(t *testing.T) {
	svc := testsupport.NewFakeService(t)
	gw := gateway.FromConfig(testsupport.NewConfig(t, testsupport.WithBaseURL(svc.URL)), logging.NewNop())
	svc.FailWith(http.StatusUnprocessableEntity, "quote_ids must not be empty")

	_, err := gw.CreateExport(context.Background(), api.ExportRequest{Format: api.FormatJSON})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "quote_ids must not be empty") {
		t.Fatalf("detail not surfaced: %v", err)
	}
	if gw.MockMode() {
		t.Fatal("logic errors must not switch to mock mode")
	}
}

func TestGatewayStartsInMockModeFromConfig(t *testing.T) {
	svc := testsupport.NewFakeService(t)
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL(svc.URL), testsupport.WithMockMode())
	gw := gateway.FromConfig(cfg, logging.NewNop())

	if _, err := gw.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
	if len(svc.Requests()) != 0 {
		t.Fatal("mock session must not reach the network")
	}
}

func TestGatewayUnreachableServiceFallsBack(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	gw := gateway.FromConfig(cfg, logging.NewNop())

	result, err := gw.Upload(context.Background(), remote.UploadFile{Name: "/tmp/talk.wav", Content: strings.NewReader("RIFF")})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !gw.MockMode() || result.Asset.Filename != "talk.wav" {
		t.Fatalf("unexpected result %+v (mock=%v)", result, gw.MockMode())
	}
}
