package service

import (
	"errors"

	"github.com/bitfantasy/mashg/internal/config"
	"github.com/bitfantasy/mashg/internal/inspection/repository"
	"github.com/bitfantasy/mashg/internal/report"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

var ErrStorageNotConfigured = errors.New("report storage not configured")

// Notifier receives change events after successful writes.
type Notifier interface {
	PublishFactoryUpdate(id uint, action string)
	PublishInspectionUpdate(id uint, action string)
}

type nopNotifier struct{}

func (nopNotifier) PublishFactoryUpdate(uint, string)    {}
func (nopNotifier) PublishInspectionUpdate(uint, string) {}

// Services groups the inspection store services.
type Services struct {
	Factory    *FactoryService
	Inspection *InspectionService
	Report     *ReportService
}

// NewServices wires services over repos. A MinIO client is created when
// cfg.MinIO.Endpoint is set; otherwise report archiving is disabled.
func NewServices(repos *repository.Repositories, cfg *config.Config, notifier Notifier, logger *zap.Logger) *Services {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
			Region: cfg.MinIO.Region,
		})
		if err != nil {
			logger.Warn("MinIO client init failed, report archive disabled", zap.Error(err))
			minioClient = nil
		}
	}

	var opts []report.Option
	opts = append(opts, report.WithLogger(logger))
	if cfg.Report.FontPath != "" {
		opts = append(opts, report.WithUTF8Font(cfg.Report.FontName, cfg.Report.FontPath))
	}
	renderer := report.NewRenderer(opts...)

	return &Services{
		Factory:    NewFactoryService(repos.Factory, notifier),
		Inspection: NewInspectionService(repos.Inspection, notifier, logger),
		Report:     NewReportService(repos.Inspection, renderer, minioClient, cfg.MinIO.Bucket, logger),
	}
}
