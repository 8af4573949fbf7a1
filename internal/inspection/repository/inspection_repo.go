package repository

import (
	"context"

	"github.com/bitfantasy/mashg/internal/inspection/entity"
	"gorm.io/gorm"
)

// InspectionRepository persists inspections.
type InspectionRepository struct {
	db *gorm.DB
}

func NewInspectionRepository(db *gorm.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

// FindAll lists inspections, filterable by factory_id and result.
func (r *InspectionRepository) FindAll(ctx context.Context, filters map[string]string) ([]entity.Inspection, error) {
	items := []entity.Inspection{}

	query := r.db.WithContext(ctx).Model(&entity.Inspection{})

	if factoryID := filters["factory_id"]; factoryID != "" {
		query = query.Where("factory_id = ?", factoryID)
	}
	if result := filters["result"]; result != "" {
		query = query.Where("result = ?", result)
	}

	err := query.
		Order("gregorian_date DESC, id DESC").
		Find(&items).Error
	return items, err
}

func (r *InspectionRepository) FindByID(ctx context.Context, id uint) (*entity.Inspection, error) {
	var inspection entity.Inspection
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&inspection).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &inspection, nil
}

func (r *InspectionRepository) Create(ctx context.Context, inspection *entity.Inspection) error {
	return r.db.WithContext(ctx).Create(inspection).Error
}

func (r *InspectionRepository) Update(ctx context.Context, inspection *entity.Inspection) error {
	return r.db.WithContext(ctx).Save(inspection).Error
}

// UpdateReportURL records where the archived report lives.
// UpdateReportURL records the archived object key; ErrNotFound when no
// inspection has id.
func (r *InspectionRepository) UpdateReportURL(ctx context.Context, id uint, url string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Inspection{}).
		Where("id = ?", id).
		Update("report_url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *InspectionRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Inspection{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
