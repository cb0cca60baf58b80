// Package output writes locale documents into the destination directory.
package output

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pricofy/loco-sync/internal/payload"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// DirectoryError reports a destination that cannot be created.
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("create directory %s: %v", e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// WriteError reports a locale file that was not written.
type WriteError struct {
	Locale string
	Path   string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s locale to %s: %v", e.Locale, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ErrInvalidLocale is wrapped by WriteError for keys that are not usable
// as file names.
var ErrInvalidLocale = errors.New("locale is not a valid file name")

// Writer flushes payloads into Dir.
type Writer struct {
	Dir    string
	Logger *slog.Logger
}

// EnsureDir creates the destination and any missing parents.
func (w *Writer) EnsureDir() error {
	if err := os.MkdirAll(w.Dir, dirPerm); err != nil {
		return &DirectoryError{Path: w.Dir, Err: err}
	}
	return nil
}

// FileName returns the path written for locale.
func (w *Writer) FileName(locale string) string {
	return filepath.Join(w.Dir, locale+".json")
}

// Flush writes every entry concurrently, overwriting existing files. A
// failed write does not stop its siblings; the first failure is returned
// along with the locales that were written. Entries not yet started when
// ctx is done fail with its error.
func (w *Writer) Flush(ctx context.Context, p payload.Payload) ([]string, error) {
	var (
		mu      sync.Mutex
		written = make([]string, 0, len(p))
	)

	var g errgroup.Group
	for _, entry := range p {
		g.Go(func() error {
			if err := w.write(ctx, entry); err != nil {
				return err
			}
			mu.Lock()
			written = append(written, entry.Locale)
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	return written, err
}

func (w *Writer) write(ctx context.Context, entry payload.Entry) error {
	path := w.FileName(entry.Locale)
	if !validLocale(entry.Locale) {
		return &WriteError{Locale: entry.Locale, Path: path, Err: ErrInvalidLocale}
	}
	if err := ctx.Err(); err != nil {
		return &WriteError{Locale: entry.Locale, Path: path, Err: err}
	}

	if w.Logger != nil {
		w.Logger.Info(fmt.Sprintf("sync %s locale", entry.Locale), "file", path)
	}

	if err := os.WriteFile(path, entry.Value, filePerm); err != nil {
		return &WriteError{Locale: entry.Locale, Path: path, Err: err}
	}
	return nil
}

func validLocale(locale string) bool {
	if locale == "" || locale == "." || locale == ".." {
		return false
	}
	return !strings.ContainsAny(locale, `/\`) && !strings.ContainsRune(locale, 0)
}
