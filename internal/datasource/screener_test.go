package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/seenimoa/compounder/internal/document"
	"github.com/seenimoa/compounder/internal/document/documenttest"
)

// newTestScreener serves handler and points a Screener at it.
func newTestScreener(t *testing.T, handler http.HandlerFunc, mutate func(*ScreenerOptions)) *Screener {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts := ScreenerOptions{
		BaseURL:      srv.URL,
		CacheTTL:     time.Minute,
		Consolidated: true,
		Client:       srv.Client(),
	}
	if mutate != nil {
		mutate(&opts)
	}
	return NewScreener(opts, zerolog.Nop())
}

func TestFetchDocumentConsolidated(t *testing.T) {
	var paths []string
	s := newTestScreener(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent")
		}
		w.Write([]byte(documenttest.Page))
	}, nil)

	doc, err := s.FetchDocument(context.Background(), " nestleind.ns ")
	if err != nil {
		t.Fatalf("FetchDocument: %v", err)
	}
	if title, _ := doc.Title(); title != documenttest.CompanyName {
		t.Errorf("Title = %q", title)
	}
	if len(paths) != 1 || paths[0] != "/company/NESTLEIND/consolidated/" {
		t.Errorf("requested %v", paths)
	}
}

func TestFetchDocumentStandaloneFallback(t *testing.T) {
	var paths []string
	s := newTestScreener(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/company/TCS/consolidated/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(documenttest.Page))
	}, nil)

	if _, err := s.FetchDocument(context.Background(), "TCS"); err != nil {
		t.Fatalf("FetchDocument: %v", err)
	}
	want := []string{"/company/TCS/consolidated/", "/company/TCS/"}
	if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
		t.Errorf("requested %v, want %v", paths, want)
	}
}

func TestFetchDocumentStandaloneOnly(t *testing.T) {
	var got string
	s := newTestScreener(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Path
		w.Write([]byte(documenttest.Page))
	}, func(o *ScreenerOptions) { o.Consolidated = false })

	if _, err := s.FetchDocument(context.Background(), "TCS"); err != nil {
		t.Fatalf("FetchDocument: %v", err)
	}
	if got != "/company/TCS/" {
		t.Errorf("requested %q", got)
	}
}

func TestFetchDocumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		ticker  string
		wantErr error
	}{
		{"not found", http.StatusNotFound, "NOPE", ErrTickerNotFound},
		{"rate limited", http.StatusTooManyRequests, "TCS", ErrRateLimited},
		{"invalid ticker", http.StatusOK, "TC$/../x", ErrInvalidTicker},
		{"empty ticker", http.StatusOK, "  ", ErrInvalidTicker},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScreener(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}, nil)
			_, err := s.FetchDocument(context.Background(), tt.ticker)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFetchDocumentServerError(t *testing.T) {
	s := newTestScreener(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}, nil)

	_, err := s.FetchDocument(context.Background(), "TCS")
	var httpErr *ErrHTTP
	if !errors.As(err, &httpErr) {
		t.Fatalf("err = %v, want *ErrHTTP", err)
	}
	if httpErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d", httpErr.StatusCode)
	}
	if IsNotFound(err) {
		t.Error("server error reported as not found")
	}
}

func TestFetchDocumentCaches(t *testing.T) {
	var hits atomic.Int32
	s := newTestScreener(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(documenttest.Page))
	}, nil)

	for i := 0; i < 3; i++ {
		if _, err := s.FetchDocument(context.Background(), "NESTLEIND"); err != nil {
			t.Fatalf("FetchDocument: %v", err)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}
}

func TestFetchDocumentSessionCookie(t *testing.T) {
	var cookie string
	s := newTestScreener(t, func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("sessionid"); err == nil {
			cookie = c.Value
		}
		w.Write([]byte(documenttest.Page))
	}, func(o *ScreenerOptions) { o.SessionID = "secret-session" })

	if _, err := s.FetchDocument(context.Background(), "TCS"); err != nil {
		t.Fatalf("FetchDocument: %v", err)
	}
	if cookie != "secret-session" {
		t.Errorf("sessionid cookie = %q", cookie)
	}
}

func TestFetchDocumentCancelled(t *testing.T) {
	s := newTestScreener(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(documenttest.Page))
	}, func(o *ScreenerOptions) { o.RequestsPerSec = 0.001 })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.FetchDocument(ctx, "TCS"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(documenttest.Page), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	tables, err := doc.Tables(document.SectionRatios, document.ShapeData)
	if err != nil || len(tables) != 1 {
		t.Errorf("ratios tables = %d, err = %v", len(tables), err)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Error("expected error for missing file")
	}
}
