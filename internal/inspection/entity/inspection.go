package entity

import "time"

// Inspection is one inspection event, assembled across the form steps and
// persisted as a single record.
type Inspection struct {
	ID        uint  `json:"id" gorm:"primaryKey"`
	FactoryID *uint `json:"factoryId" gorm:"index"`

	// basic info
	FactoryName          string `json:"factoryName" gorm:"size:200;not null"`
	FactoryAddress       string `json:"factoryAddress" gorm:"size:500;not null"`
	MapLink              string `json:"mapLink" gorm:"size:500"`
	Inspector            string `json:"inspector" gorm:"size:100;not null"`
	GregorianDate        string `json:"gregorianDate" gorm:"size:10;not null;index"`
	HebrewDate           string `json:"hebrewDate" gorm:"size:100"`
	HebrewDateOverridden bool   `json:"hebrewDateOverridden" gorm:"default:false"`

	// contact info
	ContactName  string `json:"contactName" gorm:"size:100"`
	ContactPhone string `json:"contactPhone" gorm:"size:50"`
	ContactEmail string `json:"contactEmail" gorm:"size:200"`
	ContactRole  string `json:"contactRole" gorm:"size:100"`

	// findings
	Summary string `json:"summary" gorm:"type:text"`
	Notes   string `json:"notes" gorm:"type:text"`
	Result  string `json:"result" gorm:"size:20"` // passed/failed/conditional

	ReportURL string `json:"reportUrl" gorm:"size:500"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Inspection) TableName() string {
	return "inspections"
}

// Inspection results
const (
	InspectionResultPassed      = "passed"
	InspectionResultFailed      = "failed"
	InspectionResultConditional = "conditional"
)

// ValidInspectionResults lists the accepted Result values.
var ValidInspectionResults = []string{
	InspectionResultPassed,
	InspectionResultFailed,
	InspectionResultConditional,
}
