package report

import (
	"context"
	"errors"
	"sync"

	"github.com/bitfantasy/mashg/internal/inspection/entity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNoInspection  = errors.New("viewer has no inspection")
	ErrUnknownHandle = errors.New("unknown artifact handle")
	// ErrClosed is returned by Open when Close ran during generation.
	ErrClosed = errors.New("viewer closed during generation")
)

// HandleRegistry hands out opaque handles for generated artifacts. Every
// Acquire must be paired with a Release.
type HandleRegistry struct {
	mu      sync.Mutex
	handles map[string][]byte
}

func NewHandleRegistry() *HandleRegistry {
	return &HandleRegistry{handles: make(map[string][]byte)}
}

func (r *HandleRegistry) Acquire(data []byte) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New().String()
	r.handles[id] = data
	return id
}

func (r *HandleRegistry) Resolve(id string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.handles[id]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return data, nil
}

// Release drops a handle; releasing an unknown handle is a no-op.
func (r *HandleRegistry) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, id)
}

// Len reports how many handles are live.
func (r *HandleRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// Viewer previews and downloads the report of one inspection. It owns at
// most one live artifact handle, released on Close or when replaced.
type Viewer struct {
	gen      Generator
	registry *HandleRegistry
	logger   *zap.Logger

	mu         sync.Mutex
	inspection *entity.Inspection
	current    string
	// epoch changes on every Close; an Open that started in an older epoch
	// releases its artifact instead of installing it.
	epoch uint64
}

func NewViewer(gen Generator, registry *HandleRegistry, logger *zap.Logger) *Viewer {
	if registry == nil {
		registry = NewHandleRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Viewer{gen: gen, registry: registry, logger: logger}
}

// Open generates a preview for insp and returns its handle. A previous
// handle is released once the new artifact is ready.
func (v *Viewer) Open(ctx context.Context, insp *entity.Inspection) (string, error) {
	v.mu.Lock()
	v.inspection = insp
	epoch := v.epoch
	v.mu.Unlock()

	data, err := v.gen.Generate(ctx, insp)
	if err != nil {
		v.logger.Error("report preview failed", zap.Error(err))
		return "", asGenerationError(insp, err)
	}

	handle := v.registry.Acquire(data)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.epoch != epoch {
		v.registry.Release(handle)
		v.logger.Debug("report preview discarded after close", zap.Uint("inspection_id", insp.ID))
		return "", ErrClosed
	}
	if v.current != "" {
		v.registry.Release(v.current)
	}
	v.current = handle
	return handle, nil
}

// Retry regenerates the preview for the last opened inspection.
func (v *Viewer) Retry(ctx context.Context) (string, error) {
	v.mu.Lock()
	insp := v.inspection
	v.mu.Unlock()
	if insp == nil {
		return "", ErrNoInspection
	}
	return v.Open(ctx, insp)
}

// Current returns the live handle, if any.
func (v *Viewer) Current() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current, v.current != ""
}

// Artifact returns the bytes behind the live handle.
func (v *Viewer) Artifact() ([]byte, error) {
	handle, ok := v.Current()
	if !ok {
		return nil, ErrUnknownHandle
	}
	return v.registry.Resolve(handle)
}

// Download generates the report again and writes it to dir. The preview
// artifact is not reused.
func (v *Viewer) Download(ctx context.Context, dir string) (string, error) {
	v.mu.Lock()
	insp := v.inspection
	v.mu.Unlock()
	if insp == nil {
		return "", ErrNoInspection
	}
	path, err := Download(ctx, v.gen, insp, dir)
	if err != nil {
		v.logger.Error("report download failed", zap.Error(err))
		return "", asGenerationError(insp, err)
	}
	v.logger.Info("report downloaded", zap.String("path", path))
	return path, nil
}

// Close releases the live handle. It does not cancel a generation that is
// still running, but that generation's artifact is released when it
// finishes. With nothing open it does nothing.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.epoch++
	if v.current == "" {
		return
	}
	v.registry.Release(v.current)
	v.current = ""
}

func asGenerationError(insp *entity.Inspection, err error) error {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return err
	}
	var id uint
	if insp != nil {
		id = insp.ID
	}
	return &GenerationError{InspectionID: id, Err: err}
}
