package report

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bitfantasy/mashg/internal/inspection/entity"
)

func sampleInspection() *entity.Inspection {
	return &entity.Inspection{
		ID:             3,
		FactoryName:    "Acme Foods",
		FactoryAddress: "1 Industrial Rd",
		MapLink:        "https://maps.example.com/acme",
		Inspector:      "Dana Levi",
		GregorianDate:  "2024-01-01",
		HebrewDate:     "20 Tevet 5784",
		ContactName:    "Avi",
		ContactPhone:   "050-0000000",
		Summary:        "Line 2 cleaned and verified",
		Result:         entity.InspectionResultPassed,
	}
}

type countingGenerator struct {
	calls atomic.Int32
	err   error
}

func (g *countingGenerator) Generate(ctx context.Context, insp *entity.Inspection) ([]byte, error) {
	g.calls.Add(1)
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-fake-" + insp.FactoryName), nil
}

func TestRendererProducesPDF(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	r := NewRenderer(WithClock(func() time.Time { return fixed }))

	data, err := r.Generate(context.Background(), sampleInspection())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("expected PDF header, got %q", data[:8])
	}
}

func TestRendererRejectsNilAndCancelled(t *testing.T) {
	r := NewRenderer()

	_, err := r.Generate(context.Background(), nil)
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError for nil inspection, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Generate(ctx, sampleInspection())
	if !errors.As(err, &genErr) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected wrapped context.Canceled, got %v", err)
	}
}

func TestFileName(t *testing.T) {
	insp := sampleInspection()
	if got := FileName(insp); got != "inspection-report-Acme Foods-2024-01-01.pdf" {
		t.Fatalf("unexpected file name %q", got)
	}
	insp.FactoryName = "A/B"
	if got := FileName(insp); got != "inspection-report-A-B-2024-01-01.pdf" {
		t.Fatalf("expected separators replaced, got %q", got)
	}
}

func TestDownloadWritesFile(t *testing.T) {
	dir := t.TempDir()
	path, err := Download(context.Background(), NewRenderer(), sampleInspection(), dir)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if filepath.Base(path) != "inspection-report-Acme Foods-2024-01-01.pdf" {
		t.Fatalf("unexpected path %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("expected pdf on disk, err=%v", err)
	}
}

func TestViewerCloseWithoutArtifactIsNoop(t *testing.T) {
	reg := NewHandleRegistry()
	v := NewViewer(&countingGenerator{}, reg, nil)

	v.Close()
	v.Close()

	if reg.Len() != 0 {
		t.Fatalf("expected no handles, got %d", reg.Len())
	}
	if _, ok := v.Current(); ok {
		t.Fatal("expected no current handle")
	}
}

func TestViewerReleasesHandlesAcrossCycles(t *testing.T) {
	reg := NewHandleRegistry()
	gen := &countingGenerator{}
	v := NewViewer(gen, reg, nil)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		if _, err := v.Open(ctx, sampleInspection()); err != nil {
			t.Fatalf("Open: %v", err)
		}
		if reg.Len() != 1 {
			t.Fatalf("expected 1 live handle while open, got %d", reg.Len())
		}
		v.Close()
		if reg.Len() != 0 {
			t.Fatalf("expected 0 handles after close, got %d", reg.Len())
		}
	}

	// reopening without closing replaces the handle
	first, _ := v.Open(ctx, sampleInspection())
	second, _ := v.Open(ctx, sampleInspection())
	if first == second || reg.Len() != 1 {
		t.Fatalf("expected replaced handle, got %s %s live=%d", first, second, reg.Len())
	}
	if _, err := reg.Resolve(first); !errors.Is(err, ErrUnknownHandle) {
		t.Fatalf("expected first handle released, got %v", err)
	}
}

func TestViewerDownloadRegenerates(t *testing.T) {
	gen := &countingGenerator{}
	v := NewViewer(gen, nil, nil)
	ctx := context.Background()

	if _, err := v.Download(ctx, t.TempDir()); !errors.Is(err, ErrNoInspection) {
		t.Fatalf("expected ErrNoInspection, got %v", err)
	}

	if _, err := v.Open(ctx, sampleInspection()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := v.Download(ctx, t.TempDir()); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if gen.calls.Load() != 2 {
		t.Fatalf("expected preview and download to generate separately, got %d calls", gen.calls.Load())
	}
	data, err := v.Artifact()
	if err != nil || string(data) != "%PDF-fake-Acme Foods" {
		t.Fatalf("unexpected artifact %q err=%v", data, err)
	}
}

func TestViewerFailureAndRetry(t *testing.T) {
	gen := &countingGenerator{err: errors.New("boom")}
	reg := NewHandleRegistry()
	v := NewViewer(gen, reg, nil)
	ctx := context.Background()

	if _, err := v.Retry(ctx); !errors.Is(err, ErrNoInspection) {
		t.Fatalf("expected ErrNoInspection before open, got %v", err)
	}

	_, err := v.Open(ctx, sampleInspection())
	var genErr *GenerationError
	if !errors.As(err, &genErr) || genErr.InspectionID != 3 {
		t.Fatalf("expected GenerationError for inspection 3, got %v", err)
	}
	if reg.Len() != 0 {
		t.Fatalf("expected no handle after failure, got %d", reg.Len())
	}

	gen.err = nil
	handle, err := v.Retry(ctx)
	if err != nil || handle == "" {
		t.Fatalf("expected retry to succeed, got %q %v", handle, err)
	}
	v.Close()
	if reg.Len() != 0 {
		t.Fatalf("expected handle released, got %d", reg.Len())
	}
}

// gatedGenerator blocks every Generate call until the test lets it finish.
type gatedGenerator struct {
	started chan struct{}
	finish  chan struct{}
}

func (g *gatedGenerator) Generate(ctx context.Context, insp *entity.Inspection) ([]byte, error) {
	g.started <- struct{}{}
	<-g.finish
	return []byte("%PDF-gated"), nil
}

func TestViewerCloseDuringGenerationReleasesArtifact(t *testing.T) {
	gen := &gatedGenerator{started: make(chan struct{}), finish: make(chan struct{})}
	reg := NewHandleRegistry()
	v := NewViewer(gen, reg, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		errc := make(chan error, 1)
		go func() {
			_, err := v.Open(ctx, sampleInspection())
			errc <- err
		}()

		<-gen.started
		v.Close()
		gen.finish <- struct{}{}

		if err := <-errc; !errors.Is(err, ErrClosed) {
			t.Fatalf("cycle %d: expected ErrClosed, got %v", i, err)
		}
		if reg.Len() != 0 {
			t.Fatalf("cycle %d: expected no live handles, got %d", i, reg.Len())
		}
		if _, ok := v.Current(); ok {
			t.Fatalf("cycle %d: closed viewer holds a handle", i)
		}
	}

	// a later open works normally
	go func() {
		<-gen.started
		gen.finish <- struct{}{}
	}()
	if _, err := v.Open(ctx, sampleInspection()); err != nil {
		t.Fatalf("Open after close: %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected one live handle, got %d", reg.Len())
	}
	v.Close()
}
