package viewer

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/tablekit/quicklinks/internal/adventure"
)

// maxCachedPDFs bounds the per-adventure PDF cache.
const maxCachedPDFs = 8

var pdfMagic = []byte("%PDF-")

var (
	// ErrPDFPath is returned when an adventure names a PDF outside the
	// directory of the default PDF.
	ErrPDFPath = errors.New("PDF must be a relative path inside the PDF directory")
	// ErrNotPDF is returned for files without a PDF header.
	ErrNotPDF = errors.New("not a PDF file")
)

// PDFFile is a PDF read fully into memory.
type PDFFile struct {
	Path string
	Name string
	Data []byte
}

// ReadPDF loads a PDF file. A missing file or one without a PDF header is
// an error.
func ReadPDF(path string) (*PDFFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			abs, _ := filepath.Abs(path)
			return nil, fmt.Errorf("cannot find PDF %q (looked in %s)", filepath.Base(path), abs)
		}
		return nil, fmt.Errorf("reading PDF %s: %w", path, err)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNotPDF)
	}
	return &PDFFile{Path: path, Name: filepath.Base(path), Data: data}, nil
}

// PDFSource resolves the PDF an adventure refers to. The default PDF is read
// once at construction. Per-adventure PDFs are resolved relative to the
// default PDF's directory, read on first use and cached.
type PDFSource struct {
	def   *PDFFile
	dir   string
	mu    sync.Mutex
	cache map[string]*PDFFile
}

// NewPDFSource reads the default PDF and fails if it is missing.
func NewPDFSource(defaultPath string) (*PDFSource, error) {
	def, err := ReadPDF(defaultPath)
	if err != nil {
		return nil, err
	}
	return &PDFSource{
		def:   def,
		dir:   filepath.Dir(defaultPath),
		cache: make(map[string]*PDFFile),
	}, nil
}

// Default returns the default PDF.
func (s *PDFSource) Default() *PDFFile { return s.def }

// Resolve maps an adventure's pdf field to a file path. Absolute paths and
// paths escaping the PDF directory are rejected with ErrPDFPath.
func (s *PDFSource) Resolve(name string) (string, error) {
	name = filepath.FromSlash(name)
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%q: %w", name, ErrPDFPath)
	}
	return filepath.Join(s.dir, name), nil
}

// For returns the adventure's own PDF when it names one, else the default.
func (s *PDFSource) For(adv *adventure.Adventure) (*PDFFile, error) {
	if adv == nil || adv.PDF == "" || adv.PDF == s.def.Path || adv.PDF == s.def.Name {
		return s.def, nil
	}
	path, err := s.Resolve(adv.PDF)
	if err != nil {
		return nil, err
	}
	if path == filepath.Clean(s.def.Path) {
		return s.def, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.cache[path]; ok {
		return f, nil
	}
	f, err := ReadPDF(path)
	if err != nil {
		return nil, err
	}
	if len(s.cache) >= maxCachedPDFs {
		clear(s.cache)
	}
	s.cache[path] = f
	return f, nil
}

// StatusFor maps a PDF resolution error to an HTTP status code.
func StatusFor(err error) int {
	if errors.Is(err, ErrPDFPath) || errors.Is(err, ErrNotPDF) {
		return http.StatusBadRequest
	}
	return http.StatusNotFound
}
