package testsupport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"quarry/internal/api"
	"quarry/internal/mockdata"
)

// RecordedRequest is one request received by a FakeService.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// FakeService is an in-process curation service backed by a mock provider.
type FakeService struct {
	*httptest.Server

	Provider *mockdata.Provider

	mu             sync.Mutex
	requests       []RecordedRequest
	failStatus     int
	failBody       string
	statusSequence map[string][]api.ProcessingStatus
	exportSequence map[string][]api.JobStatus
	wrapExports    bool
}

// NewFakeService starts a FakeService that is closed when the test ends.
func NewFakeService(t testing.TB) *FakeService {
	t.Helper()
	svc := &FakeService{
		Provider:       mockdata.NewProvider(),
		statusSequence: map[string][]api.ProcessingStatus{},
		exportSequence: map[string][]api.JobStatus{},
	}
	svc.Server = httptest.NewServer(svc.routes())
	t.Cleanup(svc.Close)
	return svc
}

// FailWith makes every subsequent request answer status with a JSON detail.
func (s *FakeService) FailWith(status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
	s.failBody = detail
}

// SetStatusSequence scripts the processing statuses returned for an asset.
// The last status repeats once the sequence is exhausted.
func (s *FakeService) SetStatusSequence(assetID string, statuses ...api.ProcessingStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusSequence[assetID] = statuses
}

// SetExportSequence scripts the job statuses returned for an export.
func (s *FakeService) SetExportSequence(exportID string, statuses ...api.JobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exportSequence[exportID] = statuses
}

// WrapExports makes export responses use the {"export": ...} envelope.
func (s *FakeService) WrapExports(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wrapExports = enabled
}

// Requests returns every request received so far.
func (s *FakeService) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo returns the requests matching method and path.
func (s *FakeService) RequestsTo(method, path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *FakeService) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.failures)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	r.Get("/api/status", func(w http.ResponseWriter, _ *http.Request) {
		status := s.Provider.ServiceStatus()
		status["mode"] = "live"
		writeJSON(w, http.StatusOK, status)
	})
	r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds api.LoginRequest
		if !decode(w, r, &creds) {
			return
		}
		if creds.Password == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "invalid credentials"})
			return
		}
		resp := s.Provider.Login(creds)
		resp.AccessToken = "live-token"
		writeJSON(w, http.StatusOK, resp)
	})
	r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "not authenticated"})
			return
		}
		writeJSON(w, http.StatusOK, s.Provider.Me())
	})

	r.Route("/api/uploads", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, s.Provider.ListUploads())
		})
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(32 << 20); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"detail": err.Error()})
				return
			}
			_, header, err := r.FormFile("file")
			if err != nil {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": "file is required"})
				return
			}
			result := s.Provider.Upload(header.Filename)
			result.Status.Status = api.ProcessingQueued
			result.Status.TranscriptID = ""
			writeJSON(w, http.StatusCreated, result)
		})
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, s.Provider.GetUpload(chi.URLParam(r, "id")))
		})
		r.Get("/{id}/status", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			status := s.Provider.UploadStatus(id)
			if next, ok := s.nextStatus(id); ok {
				status.Status = next
				if !next.IsTerminal() {
					status.TranscriptID = ""
				}
			}
			writeJSON(w, http.StatusOK, status)
		})
	})

	r.Route("/api/transcripts", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, s.Provider.ListTranscripts())
		})
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var in api.NewTranscript
			if decode(w, r, &in) {
				writeJSON(w, http.StatusCreated, s.Provider.CreateTranscript(in))
			}
		})
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, s.Provider.GetTranscript(chi.URLParam(r, "id")))
		})
		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Text string `json:"text"`
			}
			if decode(w, r, &body) {
				writeJSON(w, http.StatusOK, s.Provider.UpdateTranscript(chi.URLParam(r, "id"), body.Text))
			}
		})
		r.Get("/{id}/versions", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, s.Provider.TranscriptVersions(chi.URLParam(r, "id")))
		})
		r.Get("/{id}/audit", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, s.Provider.TranscriptAudit(chi.URLParam(r, "id")))
		})
		r.Post("/{id}/segments", func(w http.ResponseWriter, r *http.Request) {
			var seg api.Segment
			if decode(w, r, &seg) {
				writeJSON(w, http.StatusCreated, s.Provider.AppendSegment(chi.URLParam(r, "id"), seg))
			}
		})
	})

	r.Route("/api/quotes", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			query := api.QuoteQuery{
				AssetID: r.URL.Query().Get("assetId"),
				Status:  r.URL.Query().Get("status"),
			}
			if raw := r.URL.Query().Get("minConfidence"); raw != "" {
				value, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": "minConfidence must be a number"})
					return
				}
				query.MinConfidence = value
			}
			writeJSON(w, http.StatusOK, s.Provider.ListQuotes(query))
		})
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var in api.NewQuote
			if decode(w, r, &in) {
				writeJSON(w, http.StatusCreated, s.Provider.CreateQuote(in))
			}
		})
		r.Post("/extract", func(w http.ResponseWriter, r *http.Request) {
			var req api.ExtractRequest
			if decode(w, r, &req) {
				writeJSON(w, http.StatusOK, map[string]any{"quotes": s.Provider.ExtractQuotes(req)})
			}
		})
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, s.Provider.GetQuote(chi.URLParam(r, "id")))
		})
		r.Patch("/{id}", func(w http.ResponseWriter, r *http.Request) {
			var patch api.QuotePatch
			if decode(w, r, &patch) {
				writeJSON(w, http.StatusOK, s.Provider.UpdateQuote(chi.URLParam(r, "id"), patch))
			}
		})
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			s.Provider.DeleteQuote(chi.URLParam(r, "id"))
			w.WriteHeader(http.StatusNoContent)
		})
	})

	r.Route("/api/exports", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, s.Provider.ListExports())
		})
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req api.ExportRequest
			if !decode(w, r, &req) {
				return
			}
			if !req.Format.Valid() {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": "unsupported format"})
				return
			}
			job := s.Provider.CreateExport(req)
			if next, ok := s.nextExportStatus(job.ID); ok {
				job.Status = next
			}
			s.writeExport(w, http.StatusCreated, job)
		})
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			if r.URL.Query().Get("download") == "1" {
				out := s.Provider.DownloadExport(id)
				w.Header().Set("Content-Type", out.ContentType)
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(out.Body)
				return
			}
			job := s.Provider.GetExport(id)
			if next, ok := s.nextExportStatus(id); ok {
				job.Status = next
			}
			s.writeExport(w, http.StatusOK, job)
		})
	})
	return r
}

func (s *FakeService) writeExport(w http.ResponseWriter, status int, job api.ExportJob) {
	s.mu.Lock()
	wrap := s.wrapExports
	s.mu.Unlock()
	if wrap {
		writeJSON(w, status, map[string]any{"export": job})
		return
	}
	writeJSON(w, status, job)
}

func (s *FakeService) nextStatus(assetID string) (api.ProcessingStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := s.statusSequence[assetID]
	if len(seq) == 0 {
		return "", false
	}
	next := seq[0]
	if len(seq) > 1 {
		s.statusSequence[assetID] = seq[1:]
	}
	return next, true
}

func (s *FakeService) nextExportStatus(exportID string) (api.JobStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := s.exportSequence[exportID]
	if len(seq) == 0 {
		return "", false
	}
	next := seq[0]
	if len(seq) > 1 {
		s.exportSequence[exportID] = seq[1:]
	}
	return next, true
}

func (s *FakeService) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method: r.Method,
			Path:   trimPath(r.URL.Path),
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *FakeService) failures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status, detail := s.failStatus, s.failBody
		s.mu.Unlock()
		if status != 0 {
			writeJSON(w, status, map[string]any{"detail": detail})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": "invalid JSON body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func trimPath(p string) string {
	if p == "/" {
		return p
	}
	return strings.TrimSuffix(p, "/")
}
