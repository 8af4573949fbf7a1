package entity

import "time"

// Factory is the physical site being inspected.
type Factory struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:200;not null;index"`
	Address      string    `json:"address" gorm:"size:500;not null"`
	MapLink      string    `json:"mapLink" gorm:"size:500"`
	ContactName  string    `json:"contactName" gorm:"size:100"`
	ContactPhone string    `json:"contactPhone" gorm:"size:50"`
	ContactEmail string    `json:"contactEmail" gorm:"size:200"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Factory) TableName() string {
	return "factories"
}
