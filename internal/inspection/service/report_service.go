package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/mashg/internal/inspection/entity"
	"github.com/bitfantasy/mashg/internal/inspection/repository"
	"github.com/bitfantasy/mashg/internal/report"
	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ReportService renders, archives and exports inspection reports.
type ReportService struct {
	repo        *repository.InspectionRepository
	gen         report.Generator
	minioClient *minio.Client
	bucketName  string
	logger      *zap.Logger
	now         func() time.Time
}

func NewReportService(
	repo *repository.InspectionRepository,
	gen report.Generator,
	minioClient *minio.Client,
	bucketName string,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		repo:        repo,
		gen:         gen,
		minioClient: minioClient,
		bucketName:  bucketName,
		logger:      logger,
		now:         time.Now,
	}
}

// EnsureBucket creates the archive bucket when it is missing.
func (s *ReportService) EnsureBucket(ctx context.Context) error {
	if s.minioClient == nil {
		return ErrStorageNotConfigured
	}
	exists, err := s.minioClient.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucketName, err)
	}
	if exists {
		return nil
	}
	if err := s.minioClient.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucketName, err)
	}
	s.logger.Info("report bucket created", zap.String("bucket", s.bucketName))
	return nil
}

// Render generates the PDF of one inspection.
func (s *ReportService) Render(ctx context.Context, id uint) ([]byte, *entity.Inspection, error) {
	inspection, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("find inspection %d: %w", id, err)
	}
	data, err := s.gen.Generate(ctx, inspection)
	if err != nil {
		return nil, inspection, err
	}
	return data, inspection, nil
}

// Archive renders the report, uploads it to MinIO and records the object key.
func (s *ReportService) Archive(ctx context.Context, id uint) (*entity.Inspection, error) {
	if s.minioClient == nil {
		return nil, ErrStorageNotConfigured
	}

	data, inspection, err := s.Render(ctx, id)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("reports/%s/%d/%s", s.now().Format("2006/01"), inspection.ID, report.FileName(inspection))
	_, err = s.minioClient.PutObject(ctx, s.bucketName, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: report.ContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload report: %w", err)
	}

	if err := s.repo.UpdateReportURL(ctx, inspection.ID, objectName); err != nil {
		return nil, fmt.Errorf("record report url: %w", err)
	}
	inspection.ReportURL = objectName

	s.logger.Info("report archived",
		zap.Uint("inspection_id", inspection.ID),
		zap.String("object", objectName))
	return inspection, nil
}

var exportHeaders = []string{
	"ID", "Factory", "Address", "Inspector", "Gregorian Date", "Hebrew Date",
	"Contact", "Phone", "Email", "Result", "Summary",
}

// Export writes every inspection matching filters into one worksheet.
func (s *ReportService) Export(ctx context.Context, filters map[string]string) (*excelize.File, string, error) {
	items, err := s.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, "", fmt.Errorf("list inspections: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Inspections"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})

	for i, h := range exportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s1", col)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
		f.SetColWidth(sheet, col, col, 18)
	}

	for i, item := range items {
		row := i + 2
		values := []interface{}{
			item.ID, item.FactoryName, item.FactoryAddress, item.Inspector,
			item.GregorianDate, item.HebrewDate, item.ContactName, item.ContactPhone,
			item.ContactEmail, item.Result, item.Summary,
		}
		for j, v := range values {
			col, _ := excelize.ColumnNumberToName(j + 1)
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), v)
		}
	}

	filename := fmt.Sprintf("inspections-%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}
