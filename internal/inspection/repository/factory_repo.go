package repository

import (
	"context"
	"strings"

	"github.com/bitfantasy/mashg/internal/inspection/entity"
	"gorm.io/gorm"
)

// FactoryRepository persists factories.
type FactoryRepository struct {
	db *gorm.DB
}

func NewFactoryRepository(db *gorm.DB) *FactoryRepository {
	return &FactoryRepository{db: db}
}

// FindAll returns every factory, newest first.
func (r *FactoryRepository) FindAll(ctx context.Context) ([]entity.Factory, error) {
	items := []entity.Factory{}
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&items).Error
	return items, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Search matches name or address case-insensitively. The query is matched
// literally; % and _ are not wildcards.
func (r *FactoryRepository) Search(ctx context.Context, query string) ([]entity.Factory, error) {
	items := []entity.Factory{}
	like := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(query))) + "%"
	err := r.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(address) LIKE ? ESCAPE '\'`, like, like).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *FactoryRepository) FindByID(ctx context.Context, id uint) (*entity.Factory, error) {
	var factory entity.Factory
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&factory).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &factory, nil
}

func (r *FactoryRepository) Create(ctx context.Context, factory *entity.Factory) error {
	return r.db.WithContext(ctx).Create(factory).Error
}

func (r *FactoryRepository) Update(ctx context.Context, factory *entity.Factory) error {
	return r.db.WithContext(ctx).Save(factory).Error
}

// Delete removes a factory; ErrNotFound when nothing matched.
func (r *FactoryRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Factory{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
