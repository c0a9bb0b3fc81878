package predictor

import (
	"io"
	"os"
	"sync"

	"analytics-dashboard/apperrors"
	"analytics-dashboard/utils"
)

// Opener opens the artifact at path.
type Opener func(path string) (io.ReadCloser, error)

// Decoder turns artifact bytes into a Model.
type Decoder func(r io.Reader) (Model, error)

// Loader holds the single process-wide model slot. The first successful Load
// fills it; every later call returns the same Model without touching disk.
// Failed loads leave the slot empty.
type Loader struct {
	path   string
	open   Opener
	decode Decoder
	logger *utils.Logger

	mu    sync.Mutex
	model Model
}

// NewLoader creates a Loader for the artifact at path.
func NewLoader(path string, logger *utils.Logger) *Loader {
	return NewLoaderWith(path, func(p string) (io.ReadCloser, error) { return os.Open(p) },
		func(r io.Reader) (Model, error) { return DecodePipeline(r) }, logger)
}

// NewLoaderWith is NewLoader with custom I/O.
func NewLoaderWith(path string, open Opener, decode Decoder, logger *utils.Logger) *Loader {
	return &Loader{path: path, open: open, decode: decode, logger: logger}
}

// Load returns the cached model, reading the artifact on first use.
func (l *Loader) Load() (Model, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.model != nil {
		return l.model, nil
	}

	l.logger.Info("[predictor] Loading model from %s", l.path)
	f, err := l.open(l.path)
	if err != nil {
		l.logger.Error("[predictor] Model artifact unavailable: %v", err)
		return nil, apperrors.NewModelLoadError("open "+l.path, err)
	}
	defer f.Close()

	m, err := l.decode(f)
	if err != nil {
		l.logger.Error("[predictor] Model artifact corrupt: %v", err)
		return nil, apperrors.NewModelLoadError("decode "+l.path, err)
	}

	l.model = m
	return m, nil
}

// Loaded reports whether the slot is filled.
func (l *Loader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.model != nil
}
