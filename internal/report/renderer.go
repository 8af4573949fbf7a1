// Package report renders inspection records as PDF documents.
package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bitfantasy/mashg/internal/inspection/entity"
	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// ContentType of generated artifacts.
const ContentType = "application/pdf"

// GenerationError wraps any failure while producing a report artifact.
type GenerationError struct {
	InspectionID uint
	Err          error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate report for inspection %d: %v", e.InspectionID, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Generator produces the binary artifact for one inspection.
type Generator interface {
	Generate(ctx context.Context, insp *entity.Inspection) ([]byte, error)
}

// Renderer is the fpdf backed Generator.
type Renderer struct {
	fontPath string
	fontName string
	logger   *zap.Logger
	now      func() time.Time
}

type Option func(*Renderer)

// WithUTF8Font embeds a TrueType font so non latin text (Hebrew names) renders.
func WithUTF8Font(name, path string) Option {
	return func(r *Renderer) {
		r.fontName = name
		r.fontPath = path
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// WithClock fixes the timestamp printed in the footer and PDF metadata.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.fontName == "" {
		r.fontName = "DejaVu"
	}
	return r
}

// FileName is the download name: inspection-report-<factoryName>-<gregorianDate>.pdf.
// Path separators in the factory name are replaced so the name stays a single path element.
func FileName(insp *entity.Inspection) string {
	name := strings.NewReplacer("/", "-", "\\", "-").Replace(insp.FactoryName)
	return fmt.Sprintf("inspection-report-%s-%s.pdf", name, insp.GregorianDate)
}

// Generate renders insp into a PDF document.
func (r *Renderer) Generate(ctx context.Context, insp *entity.Inspection) ([]byte, error) {
	if insp == nil {
		return nil, &GenerationError{Err: fmt.Errorf("no inspection")}
	}
	if err := ctx.Err(); err != nil {
		return nil, &GenerationError{InspectionID: insp.ID, Err: err}
	}

	now := r.now()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetTitle("Inspection Report - "+insp.FactoryName, true)
	pdf.SetAuthor(insp.Inspector, true)

	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if r.fontPath != "" {
		pdf.AddUTF8Font(r.fontName, "", r.fontPath)
		pdf.AddUTF8Font(r.fontName, "B", r.fontPath)
		family = r.fontName
		tr = func(s string) string { return s }
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(family, "", 8)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Generated %s - page %d", now.Format("2006-01-02 15:04"), pdf.PageNo())),
			"", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont(family, "B", 18)
	pdf.CellFormat(0, 12, tr("Inspection Report"), "", 1, "C", false, 0, "")
	pdf.SetFont(family, "", 12)
	pdf.CellFormat(0, 8, tr(insp.FactoryName), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	section := func(title string, rows [][2]string) {
		pdf.SetFont(family, "B", 13)
		pdf.SetFillColor(217, 225, 242)
		pdf.CellFormat(0, 8, tr(title), "", 1, "L", true, 0, "")
		pdf.Ln(1)
		for _, row := range rows {
			if row[1] == "" {
				continue
			}
			pdf.SetFont(family, "B", 10)
			pdf.CellFormat(50, 7, tr(row[0]), "", 0, "L", false, 0, "")
			pdf.SetFont(family, "", 10)
			pdf.MultiCell(0, 7, tr(row[1]), "", "L", false)
		}
		pdf.Ln(3)
	}

	section("Basic Information", [][2]string{
		{"Factory name", insp.FactoryName},
		{"Factory address", insp.FactoryAddress},
		{"Map link", insp.MapLink},
		{"Inspector", insp.Inspector},
		{"Date (Gregorian)", insp.GregorianDate},
		{"Date (Hebrew)", insp.HebrewDate},
	})
	section("Contact Information", [][2]string{
		{"Contact name", insp.ContactName},
		{"Phone", insp.ContactPhone},
		{"Email", insp.ContactEmail},
		{"Role", insp.ContactRole},
	})
	section("Findings", [][2]string{
		{"Result", insp.Result},
		{"Summary", insp.Summary},
		{"Notes", insp.Notes},
	})

	if pdf.Err() {
		return nil, &GenerationError{InspectionID: insp.ID, Err: pdf.Error()}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &GenerationError{InspectionID: insp.ID, Err: err}
	}

	r.logger.Debug("report generated",
		zap.Uint("inspection_id", insp.ID),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// Download generates the report and writes it into dir under FileName.
func Download(ctx context.Context, gen Generator, insp *entity.Inspection, dir string) (string, error) {
	data, err := gen.Generate(ctx, insp)
	if err != nil {
		return "", err
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create report dir: %w", err)
		}
	}
	path := filepath.Join(dir, FileName(insp))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
