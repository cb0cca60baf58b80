// Package handler runs the translation sync at the build:before point.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/text/language"

	"github.com/pricofy/loco-sync/internal/config"
	"github.com/pricofy/loco-sync/internal/domain"
	"github.com/pricofy/loco-sync/internal/logging"
	"github.com/pricofy/loco-sync/internal/loco"
	"github.com/pricofy/loco-sync/internal/output"
	"github.com/pricofy/loco-sync/internal/payload"
)

// Fetcher retrieves the raw export document.
type Fetcher interface {
	Export(ctx context.Context, q loco.Query) ([]byte, error)
}

// Handler syncs one configuration into its destination directory.
type Handler struct {
	cfg     config.Config
	srcDir  string
	fetcher Fetcher
	logger  *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithFetcher replaces the Loco client.
func WithFetcher(f Fetcher) Option {
	return func(h *Handler) { h.fetcher = f }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// WithSrcDir sets the project source root the default destination is
// resolved against. Defaults to the working directory.
func WithSrcDir(dir string) Option {
	return func(h *Handler) { h.srcDir = dir }
}

// New creates a Handler for cfg.
func New(cfg config.Config, opts ...Option) *Handler {
	h := &Handler{
		cfg:    cfg,
		srcDir: ".",
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.fetcher == nil {
		h.fetcher = loco.NewClient(cfg.Token,
			loco.WithTimeout(cfg.Timeout),
			loco.WithLogger(h.logger),
		)
	}
	return h
}

// Destination returns the resolved output directory.
func (h *Handler) Destination() string {
	return h.cfg.Destination(h.srcDir)
}

// Sync fetches the export and writes one file per locale. Errors are
// *loco.FetchError, *payload.ParseError, *output.DirectoryError or
// *output.WriteError. The result is always non-nil and lists the files
// written even when a write failed.
func (h *Handler) Sync(ctx context.Context) (*domain.Result, error) {
	res := &domain.Result{Destination: h.Destination(), Locales: []string{}}

	if h.cfg.Disabled {
		h.logger.Info("sync disabled")
		res.Skipped = true
		return res, nil
	}

	query := loco.Query{Fallback: h.cfg.Fallback, Filter: h.cfg.Filter}
	body, err := h.fetcher.Export(ctx, query)
	if err != nil {
		return res, err
	}

	p, err := payload.Build(body, h.cfg.Locale)
	if err != nil {
		return res, err
	}
	h.logger.Debug("export fetched", "locales", len(p), "bytes", len(body))
	h.checkLocales(p)

	w := &output.Writer{Dir: res.Destination, Logger: h.logger}
	if err := w.EnsureDir(); err != nil {
		return res, err
	}

	written, err := w.Flush(ctx, p)
	res.Locales = written
	return res, err
}

// OnBuildBefore runs Sync and logs any failure instead of returning it, so
// a translation problem never fails the build.
func (h *Handler) OnBuildBefore(ctx context.Context) *domain.Result {
	res, err := h.Sync(ctx)
	if err == nil {
		return res
	}

	var (
		dirErr   *output.DirectoryError
		writeErr *output.WriteError
	)
	switch {
	case errors.As(err, &dirErr), errors.As(err, &writeErr):
		h.logger.Error("unable to create folder", "path", res.Destination, "error", err)
	default:
		h.logger.Error("unable to fetch translation", "error", err)
	}
	return res
}

// checkLocales flags keys that do not look like language tags. They are
// still written.
func (h *Handler) checkLocales(p payload.Payload) {
	for _, locale := range p.Locales() {
		if _, err := language.Parse(strings.ReplaceAll(locale, "_", "-")); err != nil {
			h.logger.Debug("locale is not a BCP 47 tag", "locale", locale)
		}
	}
}
