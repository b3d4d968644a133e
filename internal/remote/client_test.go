package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"quarry/internal/api"
	"quarry/internal/remote"
	"quarry/internal/services"
)

func newClient(t *testing.T, handler http.HandlerFunc) *remote.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return remote.New(remote.Config{BaseURL: server.URL + "/", Token: "secret", UserAgent: "quarry-test"})
}

func TestRequestsCarryStandardHeaders(t *testing.T) {
	var got http.Header
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"q1","approved":true,"tags":["a"]}`))
	})

	approved := true
	if _, err := client.UpdateQuote(context.Background(), "q1", api.QuotePatch{Approved: &approved}); err != nil {
		t.Fatalf("UpdateQuote: %v", err)
	}
	if got.Get("Accept") != "application/json" {
		t.Errorf("Accept = %q", got.Get("Accept"))
	}
	if got.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", got.Get("Content-Type"))
	}
	if got.Get("Authorization") != "Bearer secret" {
		t.Errorf("Authorization = %q", got.Get("Authorization"))
	}
	if got.Get("User-Agent") != "quarry-test" {
		t.Errorf("User-Agent = %q", got.Get("User-Agent"))
	}
	if got.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestRequestIDFromContextIsForwarded(t *testing.T) {
	var got string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(`{"id":"u1","email":"a@b.c"}`))
	})
	ctx := services.WithRequestID(context.Background(), "req-42")
	if _, err := client.Me(ctx); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if got != "req-42" {
		t.Fatalf("X-Request-ID = %q", got)
	}
}

func TestGetRequestsOmitContentTypeAndToken(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()
	client := remote.New(remote.Config{BaseURL: server.URL})

	if _, err := client.ListExports(context.Background()); err != nil {
		t.Fatalf("ListExports: %v", err)
	}
	if got.Get("Content-Type") != "" {
		t.Errorf("unexpected Content-Type %q", got.Get("Content-Type"))
	}
	if got.Get("Authorization") != "" {
		t.Errorf("unexpected Authorization %q", got.Get("Authorization"))
	}
}

func TestListQuotesQueryOmitsEmptyValues(t *testing.T) {
	tests := []struct {
		name  string
		query api.QuoteQuery
		want  string
	}{
		{name: "no filters", query: api.QuoteQuery{}, want: ""},
		{name: "status only", query: api.QuoteQuery{Status: "approved"}, want: "status=approved"},
		{name: "all filters", query: api.QuoteQuery{AssetID: "a1", Status: "pending", MinConfidence: 0.75}, want: "assetId=a1&minConfidence=0.75&status=pending"},
		{name: "zero confidence", query: api.QuoteQuery{AssetID: "a1", MinConfidence: 0}, want: "assetId=a1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rawQuery string
			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				rawQuery = r.URL.RawQuery
				_, _ = w.Write([]byte(`{"quotes":[]}`))
			})
			if _, err := client.ListQuotes(context.Background(), tt.query); err != nil {
				t.Fatalf("ListQuotes: %v", err)
			}
			if rawQuery != tt.want {
				t.Fatalf("query = %q, want %q", rawQuery, tt.want)
			}
		})
	}
}

func TestUploadSendsMultipart(t *testing.T) {
	var (
		contentType string
		fileBody    string
		owner       string
		filename    string
	)
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		owner = r.FormValue("owner_id")
		f, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		fileBody = string(data)
		filename = header.Filename
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"upload":{"asset":{"id":"a1","filename":"talk.mp3"},"status":{"asset_id":"a1","status":"queued"}}}`))
	})

	result, err := client.Upload(context.Background(), remote.UploadFile{
		Name:    "/tmp/media/talk.mp3",
		Content: strings.NewReader("ID3 audio"),
		OwnerID: "owner-7",
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(contentType, "multipart/form-data; boundary=") {
		t.Errorf("Content-Type = %q", contentType)
	}
	if fileBody != "ID3 audio" || filename != "talk.mp3" || owner != "owner-7" {
		t.Errorf("unexpected form: body=%q filename=%q owner=%q", fileBody, filename, owner)
	}
	if result.Asset.ID != "a1" || result.Status.Status != api.ProcessingQueued {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestUploadRequiresFile(t *testing.T) {
	client := remote.New(remote.Config{BaseURL: "http://127.0.0.1:1"})
	_, err := client.Upload(context.Background(), remote.UploadFile{Name: ""})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteQuoteNoContent(t *testing.T) {
	var method string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusNoContent)
	})
	if err := client.DeleteQuote(context.Background(), "q1"); err != nil {
		t.Fatalf("DeleteQuote: %v", err)
	}
	if method != http.MethodDelete {
		t.Fatalf("method = %s", method)
	}
}

func TestCreateExportSendsNullByline(t *testing.T) {
	var body map[string]any
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"export":{"id":"exp-9","status":"pending","format":"srt"}}`))
	})
	job, err := client.CreateExport(context.Background(), api.ExportRequest{QuoteIDs: []string{"q1"}, Format: api.FormatSRT})
	if err != nil {
		t.Fatalf("CreateExport: %v", err)
	}
	if job.ID != "exp-9" {
		t.Fatalf("job id = %q", job.ID)
	}
	want := map[string]any{"quote_ids": []any{"q1"}, "format": "srt", "title": nil, "author": nil}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestDownloadExportReturnsRawBody(t *testing.T) {
	var rawQuery string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("1\n00:00:01,000 --> 00:00:02,000\nhello\n"))
	})
	out, err := client.DownloadExport(context.Background(), "exp-1")
	if err != nil {
		t.Fatalf("DownloadExport: %v", err)
	}
	if rawQuery != "download=1" {
		t.Errorf("query = %q", rawQuery)
	}
	if !strings.Contains(string(out.Body), "hello") || !strings.HasPrefix(out.ContentType, "text/plain") {
		t.Errorf("unexpected output: %+v", out)
	}
}

func TestErrorPayloadDecoding(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		contentType  string
		body         string
		wantDetail   string
		connectivity bool
	}{
		{name: "json detail", status: 422, contentType: "application/json", body: `{"detail":"quote_ids must not be empty"}`, wantDetail: "quote_ids must not be empty"},
		{name: "validation list", status: 422, contentType: "application/json", body: `{"detail":[{"msg":"field required"},{"msg":"bad format"}]}`, wantDetail: "field required; bad format"},
		{name: "plain text", status: 500, contentType: "text/plain", body: "boom", wantDetail: "boom"},
		{name: "not found", status: 404, contentType: "application/json", body: `{"detail":"Not Found"}`, wantDetail: "Not Found", connectivity: true},
		{name: "forbidden", status: 403, contentType: "application/problem+json", body: `{"error":"forbidden"}`, wantDetail: "forbidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := client.GetQuote(context.Background(), "q1")
			var remoteErr *remote.Error
			if !errors.As(err, &remoteErr) {
				t.Fatalf("expected *remote.Error, got %T %v", err, err)
			}
			if remoteErr.Status != tt.status {
				t.Errorf("status = %d", remoteErr.Status)
			}
			if remoteErr.Detail() != tt.wantDetail {
				t.Errorf("detail = %q, want %q", remoteErr.Detail(), tt.wantDetail)
			}
			if remote.IsConnectivity(err) != tt.connectivity {
				t.Errorf("IsConnectivity = %v", remote.IsConnectivity(err))
			}
			if errors.Is(err, services.ErrConnectivity) != tt.connectivity {
				t.Errorf("ErrConnectivity match = %v", errors.Is(err, services.ErrConnectivity))
			}
			if !tt.connectivity && !errors.Is(err, services.ErrRemote) {
				t.Errorf("expected ErrRemote marker")
			}
		})
	}
}

func TestTransportFailureIsConnectivity(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	client := remote.New(remote.Config{BaseURL: addr})
	_, err := client.ListUploads(context.Background())
	if !remote.IsConnectivity(err) {
		t.Fatalf("expected connectivity error, got %v", err)
	}
	if remote.StatusOf(err) != 0 {
		t.Fatalf("status = %d", remote.StatusOf(err))
	}
}

func TestEmptyBaseAddressIsConnectivity(t *testing.T) {
	client := remote.New(remote.Config{})
	_, err := client.ServiceStatus(context.Background())
	if !remote.IsConnectivity(err) {
		t.Fatalf("expected connectivity error, got %v", err)
	}
}

func TestClientTimeoutIsConnectivityButCallerDeadlineIsNot(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	timed := remote.New(remote.Config{BaseURL: server.URL, Timeout: 20 * time.Millisecond})
	if _, err := timed.GetUpload(context.Background(), "a1"); !remote.IsConnectivity(err) {
		t.Fatalf("client timeout: expected connectivity, got %v", err)
	}

	client := remote.New(remote.Config{BaseURL: server.URL})
	deadlineCtx, cancelDeadline := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancelDeadline()
	_, err := client.GetUpload(deadlineCtx, "a1")
	if remote.IsConnectivity(err) {
		t.Fatalf("caller deadline: should not be connectivity: %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("caller deadline: expected context.DeadlineExceeded, got %v", err)
	}

	cancelCtx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err = client.GetUpload(cancelCtx, "a1")
	if remote.IsConnectivity(err) {
		t.Fatalf("cancel: should not be connectivity: %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("cancel: expected context.Canceled, got %v", err)
	}
}

func TestLogicalFailureInSuccessBodyIsNotAnError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"degraded","error":"worker offline"}`))
	})
	status, err := client.ServiceStatus(context.Background())
	if err != nil {
		t.Fatalf("ServiceStatus: %v", err)
	}
	if status["error"] != "worker offline" {
		t.Fatalf("unexpected status: %v", status)
	}
}
