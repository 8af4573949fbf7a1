package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bitfantasy/mashg/internal/hebdate"
	"github.com/bitfantasy/mashg/internal/inspection/entity"
	"github.com/bitfantasy/mashg/internal/inspection/repository"
	"go.uber.org/zap"
)

// InspectionService manages inspection records.
type InspectionService struct {
	repo     *repository.InspectionRepository
	notifier Notifier
	logger   *zap.Logger
}

func NewInspectionService(repo *repository.InspectionRepository, notifier Notifier, logger *zap.Logger) *InspectionService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InspectionService{repo: repo, notifier: notifier, logger: logger}
}

// CreateInspectionRequest is the finalized record submitted by the form.
type CreateInspectionRequest struct {
	FactoryID            *uint  `json:"factoryId"`
	FactoryName          string `json:"factoryName" binding:"required"`
	FactoryAddress       string `json:"factoryAddress" binding:"required"`
	MapLink              string `json:"mapLink" binding:"omitempty,url"`
	Inspector            string `json:"inspector" binding:"required"`
	GregorianDate        string `json:"gregorianDate" binding:"required,datetime=2006-01-02"`
	HebrewDate           string `json:"hebrewDate"`
	HebrewDateOverridden bool   `json:"hebrewDateOverridden"`
	ContactName          string `json:"contactName"`
	ContactPhone         string `json:"contactPhone"`
	ContactEmail         string `json:"contactEmail" binding:"omitempty,email"`
	ContactRole          string `json:"contactRole"`
	Summary              string `json:"summary"`
	Notes                string `json:"notes"`
	Result               string `json:"result" binding:"omitempty,oneof=passed failed conditional"`
}

// UpdateInspectionRequest is a partial update; nil fields are left unchanged.
// Optional fields accept "" to clear them.
type UpdateInspectionRequest struct {
	FactoryID            *uint   `json:"factoryId"`
	FactoryName          *string `json:"factoryName" binding:"omitempty,min=1"`
	FactoryAddress       *string `json:"factoryAddress" binding:"omitempty,min=1"`
	MapLink              *string `json:"mapLink" binding:"omitempty,url|len=0"`
	Inspector            *string `json:"inspector" binding:"omitempty,min=1"`
	GregorianDate        *string `json:"gregorianDate" binding:"omitempty,datetime=2006-01-02"`
	HebrewDate           *string `json:"hebrewDate"`
	HebrewDateOverridden *bool   `json:"hebrewDateOverridden"`
	ContactName          *string `json:"contactName"`
	ContactPhone         *string `json:"contactPhone"`
	ContactEmail         *string `json:"contactEmail" binding:"omitempty,email|len=0"`
	ContactRole          *string `json:"contactRole"`
	Summary              *string `json:"summary"`
	Notes                *string `json:"notes"`
	Result               *string `json:"result" binding:"omitempty,oneof=passed failed conditional|len=0"`
}

func (s *InspectionService) List(ctx context.Context, filters map[string]string) ([]entity.Inspection, error) {
	return s.repo.FindAll(ctx, filters)
}

func (s *InspectionService) Get(ctx context.Context, id uint) (*entity.Inspection, error) {
	inspection, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find inspection %d: %w", id, err)
	}
	return inspection, nil
}

func (s *InspectionService) Create(ctx context.Context, req *CreateInspectionRequest) (*entity.Inspection, error) {
	inspection := &entity.Inspection{
		FactoryID:            req.FactoryID,
		FactoryName:          strings.TrimSpace(req.FactoryName),
		FactoryAddress:       strings.TrimSpace(req.FactoryAddress),
		MapLink:              req.MapLink,
		Inspector:            strings.TrimSpace(req.Inspector),
		GregorianDate:        req.GregorianDate,
		HebrewDate:           req.HebrewDate,
		HebrewDateOverridden: req.HebrewDateOverridden,
		ContactName:          req.ContactName,
		ContactPhone:         req.ContactPhone,
		ContactEmail:         req.ContactEmail,
		ContactRole:          req.ContactRole,
		Summary:              req.Summary,
		Notes:                req.Notes,
		Result:               req.Result,
	}
	s.deriveHebrewDate(inspection)

	if err := s.repo.Create(ctx, inspection); err != nil {
		return nil, fmt.Errorf("create inspection: %w", err)
	}
	s.notifier.PublishInspectionUpdate(inspection.ID, "created")
	return inspection, nil
}

func (s *InspectionService) Update(ctx context.Context, id uint, req *UpdateInspectionRequest) (*entity.Inspection, error) {
	inspection, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find inspection %d: %w", id, err)
	}

	if req.FactoryID != nil {
		inspection.FactoryID = req.FactoryID
	}
	if req.FactoryName != nil {
		inspection.FactoryName = strings.TrimSpace(*req.FactoryName)
	}
	if req.FactoryAddress != nil {
		inspection.FactoryAddress = strings.TrimSpace(*req.FactoryAddress)
	}
	if req.MapLink != nil {
		inspection.MapLink = *req.MapLink
	}
	if req.Inspector != nil {
		inspection.Inspector = strings.TrimSpace(*req.Inspector)
	}
	if req.GregorianDate != nil {
		inspection.GregorianDate = *req.GregorianDate
	}
	if req.HebrewDateOverridden != nil {
		inspection.HebrewDateOverridden = *req.HebrewDateOverridden
	}
	if req.HebrewDate != nil {
		inspection.HebrewDate = *req.HebrewDate
	}
	if req.ContactName != nil {
		inspection.ContactName = *req.ContactName
	}
	if req.ContactPhone != nil {
		inspection.ContactPhone = *req.ContactPhone
	}
	if req.ContactEmail != nil {
		inspection.ContactEmail = *req.ContactEmail
	}
	if req.ContactRole != nil {
		inspection.ContactRole = *req.ContactRole
	}
	if req.Summary != nil {
		inspection.Summary = *req.Summary
	}
	if req.Notes != nil {
		inspection.Notes = *req.Notes
	}
	if req.Result != nil {
		inspection.Result = *req.Result
	}
	s.deriveHebrewDate(inspection)

	if err := s.repo.Update(ctx, inspection); err != nil {
		return nil, fmt.Errorf("update inspection %d: %w", id, err)
	}
	s.notifier.PublishInspectionUpdate(inspection.ID, "updated")
	return inspection, nil
}

func (s *InspectionService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete inspection %d: %w", id, err)
	}
	s.notifier.PublishInspectionUpdate(id, "deleted")
	return nil
}

// deriveHebrewDate keeps HebrewDate in step with GregorianDate unless the
// record carries a manual override. A failed conversion leaves it blank.
func (s *InspectionService) deriveHebrewDate(inspection *entity.Inspection) {
	if inspection.HebrewDateOverridden {
		return
	}
	hebrew, err := hebdate.Convert(inspection.GregorianDate)
	if err != nil {
		s.logger.Warn("hebrew date conversion failed",
			zap.String("gregorian_date", inspection.GregorianDate),
			zap.Error(err))
		inspection.HebrewDate = ""
		return
	}
	inspection.HebrewDate = hebrew
}
