package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/renameio/v2"

	"github.com/tablekit/quicklinks/internal/adventure"
)

// Ext is the file extension of persisted adventures.
const Ext = ".json"

// ErrNotFound is returned when no adventure file matches an identifier.
var ErrNotFound = errors.New("adventure not found")

// FormatError reports a file that exists but does not decode as an adventure.
type FormatError struct {
	ID  string
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("adventure %q is not a valid adventure file: %v", e.ID, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// SaveResult describes the outcome of a save.
type SaveResult struct {
	ID            string `json:"id"`
	Replaced      bool   `json:"replaced"`
	PreviousTitle string `json:"previous_title,omitempty"`
	// Collision is set when the replaced file held an adventure with a
	// different title that slugifies to the same identifier.
	Collision bool `json:"collision"`
}

// Warning returns a user-facing message for an identifier collision, or "".
func (r SaveResult) Warning() string {
	if !r.Collision {
		return ""
	}
	return fmt.Sprintf("saved as %q, replacing the adventure %q that shares the same file name", r.ID, r.PreviousTitle)
}

// Store reads and writes adventure records as one JSON file each in Dir.
// There is no locking: concurrent writers race and the last rename wins.
type Store struct {
	dir     string
	include []string
	exclude []string
}

// Option configures a Store.
type Option func(*Store)

// WithInclude restricts List to identifiers matching any of the glob patterns.
func WithInclude(patterns ...string) Option {
	return func(s *Store) { s.include = patterns }
}

// WithExclude hides identifiers matching any of the glob patterns from List.
func WithExclude(patterns ...string) Option {
	return func(s *Store) { s.exclude = patterns }
}

// New creates a Store rooted at dir. The directory is created lazily on save.
func New(dir string, opts ...Option) *Store {
	s := &Store{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory the store reads from.
func (s *Store) Dir() string { return s.dir }

// Path returns the file path for an identifier.
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+Ext)
}

// List returns the identifiers of all persisted adventures, sorted.
// A missing directory yields an empty list.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ids := []string{}
	if _, err := os.Stat(s.dir); err != nil {
		if os.IsNotExist(err) {
			return ids, nil
		}
		return nil, fmt.Errorf("accessing adventure dir %s: %w", s.dir, err)
	}

	matches, err := doublestar.Glob(os.DirFS(s.dir), "*"+Ext, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("listing adventures in %s: %w", s.dir, err)
	}
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id := strings.TrimSuffix(m, Ext)
		if !ValidID(id) || !s.visible(id) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// visible applies the include/exclude filters to an identifier.
func (s *Store) visible(id string) bool {
	if len(s.include) > 0 && !matchesAny(id, s.include) {
		return false
	}
	return !matchesAny(id, s.exclude)
}

func matchesAny(id string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, id); err == nil && ok {
			return true
		}
	}
	return false
}

// Load reads the adventure stored under id. Missing fields decode to their
// zero values.
func (s *Store) Load(ctx context.Context, id string) (*adventure.Adventure, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ValidID(id) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		return nil, fmt.Errorf("reading adventure %q: %w", id, err)
	}
	adv, err := Decode(data)
	if err != nil {
		return nil, &FormatError{ID: id, Err: err}
	}
	return adv, nil
}

// Decode parses an adventure record.
func Decode(data []byte) (*adventure.Adventure, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("expected a JSON object")
	}
	var adv adventure.Adventure
	if err := json.Unmarshal(trimmed, &adv); err != nil {
		return nil, err
	}
	return &adv, nil
}

// Encode renders an adventure as pretty-printed JSON with a trailing newline.
func Encode(adv *adventure.Adventure) ([]byte, error) {
	data, err := json.MarshalIndent(adv, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Save normalizes adv and writes it under the slug of its title, replacing
// any existing file with that identifier.
func (s *Store) Save(ctx context.Context, adv *adventure.Adventure) (SaveResult, error) {
	title := ""
	if adv != nil {
		title = adv.Title
	}
	return s.SaveAs(ctx, adventure.Identifier(title), adv)
}

// SaveAs normalizes adv and writes it under an explicit identifier.
func (s *Store) SaveAs(ctx context.Context, id string, adv *adventure.Adventure) (SaveResult, error) {
	if err := ctx.Err(); err != nil {
		return SaveResult{}, err
	}
	if !ValidID(id) {
		return SaveResult{}, fmt.Errorf("invalid adventure identifier %q", id)
	}
	normalized := adventure.Normalize(adv)

	result := SaveResult{ID: id}
	if prev, err := s.Load(ctx, id); err == nil {
		result.Replaced = true
		result.PreviousTitle = prev.Title
		result.Collision = prev.Title != normalized.Title
	} else {
		var fe *FormatError
		if errors.As(err, &fe) {
			result.Replaced = true
		}
	}

	data, err := Encode(normalized)
	if err != nil {
		return SaveResult{}, fmt.Errorf("encoding adventure %q: %w", id, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return SaveResult{}, fmt.Errorf("creating adventure dir %s: %w", s.dir, err)
	}
	if err := writeFileAtomic(s.Path(id), data); err != nil {
		return SaveResult{}, fmt.Errorf("writing adventure %q: %w", id, err)
	}
	return result, nil
}

// writeFileAtomic writes data to a hidden temp file next to path and
// renames it into place so readers never observe a truncated file. The
// temp name starts with a dot, which List and ValidID skip.
func writeFileAtomic(path string, data []byte) error {
	return renameio.WriteFile(path, data, 0o644, renameio.WithTempDir(filepath.Dir(path)))
}

// ValidID reports whether id can name a file inside the store directory.
func ValidID(id string) bool {
	if id == "" || strings.HasPrefix(id, ".") {
		return false
	}
	return !strings.ContainsAny(id, `/\`) && !strings.Contains(id, "..")
}
