package datasource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/seenimoa/compounder/internal/document"
	"github.com/seenimoa/compounder/internal/infra"
	"github.com/seenimoa/compounder/pkg/utils"
)

// DefaultScreenerURL is the public Screener.in site.
const DefaultScreenerURL = "https://www.screener.in"

// ScreenerOptions configures a Screener.
type ScreenerOptions struct {
	BaseURL        string
	Timeout        time.Duration
	RequestsPerSec float64 // <= 0 disables limiting
	CacheTTL       time.Duration
	Consolidated   bool   // try the consolidated statements first
	SessionID      string // optional login cookie
	Client         *http.Client
}

// Screener fetches company pages from Screener.in.
type Screener struct {
	opts    ScreenerOptions
	client  *http.Client
	cache   *infra.Cache[[]byte]
	limiter *rate.Limiter
	logger  zerolog.Logger
}

var _ Source = (*Screener)(nil)

// NewScreener creates a new Screener.in source.
func NewScreener(opts ScreenerOptions, logger zerolog.Logger) *Screener {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultScreenerURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSec > 0 {
		limit = rate.Limit(opts.RequestsPerSec)
	}

	return &Screener{
		opts:    opts,
		client:  client,
		cache:   infra.NewCache[[]byte](opts.CacheTTL),
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.With().Str("source", "screener").Logger(),
	}
}

// Name returns the data source name.
func (s *Screener) Name() string { return "Screener.in" }

// FetchDocument downloads and parses the company page for ticker. Pages
// are cached by symbol for the configured TTL.
func (s *Screener) FetchDocument(ctx context.Context, ticker string) (document.Document, error) {
	symbol := utils.NormalizeTicker(ticker)
	if err := utils.ValidateTicker(symbol); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTicker, err)
	}

	page, ok := s.cache.Get(symbol)
	if ok {
		s.logger.Debug().Str("symbol", symbol).Msg("page cache hit")
	} else {
		var err error
		page, err = s.fetchPage(ctx, symbol)
		if err != nil {
			return nil, err
		}
		s.cache.Set(symbol, page)
	}

	doc, err := document.ParseHTML(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse screener HTML: %w", err)
	}
	return doc, nil
}

// companyURLs lists the pages to try for symbol, in order.
func (s *Screener) companyURLs(symbol string) []string {
	standalone := fmt.Sprintf("%s/company/%s/", s.opts.BaseURL, symbol)
	if !s.opts.Consolidated {
		return []string{standalone}
	}
	return []string{
		fmt.Sprintf("%s/company/%s/consolidated/", s.opts.BaseURL, symbol),
		standalone,
	}
}

// fetchPage downloads the Screener.in company page. A 404 on the
// consolidated page falls back to the standalone one.
func (s *Screener) fetchPage(ctx context.Context, symbol string) ([]byte, error) {
	headers := map[string]string{"Accept": "text/html"}
	if s.opts.SessionID != "" {
		headers["Cookie"] = "sessionid=" + s.opts.SessionID
	}

	for _, url := range s.companyURLs(symbol) {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		start := time.Now()
		body, status, err := doGet(ctx, s.client, url, headers)
		if err != nil {
			switch status {
			case http.StatusNotFound:
				s.logger.Debug().Str("url", url).Msg("page not found")
				continue
			case http.StatusTooManyRequests:
				return nil, fmt.Errorf("screener.in %s: %w", symbol, ErrRateLimited)
			}
			return nil, fmt.Errorf("screener.in %s: %w", symbol, err)
		}

		page, err := io.ReadAll(io.LimitReader(body, maxPageBytes))
		body.Close()
		if err != nil {
			return nil, fmt.Errorf("read screener page: %w", err)
		}
		s.logger.Info().
			Str("url", url).
			Int("bytes", len(page)).
			Dur("duration", time.Since(start)).
			Msg("fetched company page")
		return page, nil
	}
	return nil, fmt.Errorf("screener.in %s: %w", symbol, ErrTickerNotFound)
}

// IsNotFound reports whether err means the ticker does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTickerNotFound)
}
