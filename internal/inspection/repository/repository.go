package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories groups the inspection store repositories.
type Repositories struct {
	Factory    *FactoryRepository
	Inspection *InspectionRepository
}

// NewRepositories builds every repository on the same connection.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Factory:    NewFactoryRepository(db),
		Inspection: NewInspectionRepository(db),
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
