package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bitfantasy/mashg/internal/inspection/entity"
	"github.com/bitfantasy/mashg/internal/inspection/repository"
)

// FactoryService manages factories.
type FactoryService struct {
	repo     *repository.FactoryRepository
	notifier Notifier
}

func NewFactoryService(repo *repository.FactoryRepository, notifier Notifier) *FactoryService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &FactoryService{repo: repo, notifier: notifier}
}

// CreateFactoryRequest is the create-factory payload.
type CreateFactoryRequest struct {
	Name         string `json:"name" binding:"required"`
	Address      string `json:"address" binding:"required"`
	MapLink      string `json:"mapLink" binding:"omitempty,url"`
	ContactName  string `json:"contactName"`
	ContactPhone string `json:"contactPhone"`
	ContactEmail string `json:"contactEmail" binding:"omitempty,email"`
}

// UpdateFactoryRequest is a partial update; nil fields are left unchanged.
type UpdateFactoryRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1"`
	Address      *string `json:"address" binding:"omitempty,min=1"`
	MapLink      *string `json:"mapLink" binding:"omitempty,url|len=0"`
	ContactName  *string `json:"contactName"`
	ContactPhone *string `json:"contactPhone"`
	ContactEmail *string `json:"contactEmail" binding:"omitempty,email|len=0"`
}

func (s *FactoryService) List(ctx context.Context) ([]entity.Factory, error) {
	return s.repo.FindAll(ctx)
}

// Search returns no results for an empty or blank query.
func (s *FactoryService) Search(ctx context.Context, query string) ([]entity.Factory, error) {
	if strings.TrimSpace(query) == "" {
		return []entity.Factory{}, nil
	}
	return s.repo.Search(ctx, query)
}

func (s *FactoryService) Get(ctx context.Context, id uint) (*entity.Factory, error) {
	factory, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find factory %d: %w", id, err)
	}
	return factory, nil
}

func (s *FactoryService) Create(ctx context.Context, req *CreateFactoryRequest) (*entity.Factory, error) {
	factory := &entity.Factory{
		Name:         strings.TrimSpace(req.Name),
		Address:      strings.TrimSpace(req.Address),
		MapLink:      req.MapLink,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
	}
	if err := s.repo.Create(ctx, factory); err != nil {
		return nil, fmt.Errorf("create factory: %w", err)
	}
	s.notifier.PublishFactoryUpdate(factory.ID, "created")
	return factory, nil
}

func (s *FactoryService) Update(ctx context.Context, id uint, req *UpdateFactoryRequest) (*entity.Factory, error) {
	factory, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find factory %d: %w", id, err)
	}

	if req.Name != nil {
		factory.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		factory.Address = strings.TrimSpace(*req.Address)
	}
	if req.MapLink != nil {
		factory.MapLink = *req.MapLink
	}
	if req.ContactName != nil {
		factory.ContactName = *req.ContactName
	}
	if req.ContactPhone != nil {
		factory.ContactPhone = *req.ContactPhone
	}
	if req.ContactEmail != nil {
		factory.ContactEmail = *req.ContactEmail
	}

	if err := s.repo.Update(ctx, factory); err != nil {
		return nil, fmt.Errorf("update factory %d: %w", id, err)
	}
	s.notifier.PublishFactoryUpdate(factory.ID, "updated")
	return factory, nil
}

func (s *FactoryService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete factory %d: %w", id, err)
	}
	s.notifier.PublishFactoryUpdate(id, "deleted")
	return nil
}
