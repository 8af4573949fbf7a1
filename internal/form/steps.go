// Package form assembles an inspection across ordered, individually
// validated steps and persists the finished record.
package form

import "strings"

// Step names one page of the inspection form.
type Step string

const (
	StepBasicInfo   Step = "basic_info"
	StepContactInfo Step = "contact_info"
	StepFindings    Step = "findings"
	StepReview      Step = "review"
)

// Steps in the order the wizard walks them.
var Steps = []Step{StepBasicInfo, StepContactInfo, StepFindings, StepReview}

// Title is the human label of a step.
func (s Step) Title() string {
	words := strings.Split(string(s), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// StepData is the payload of exactly one step. The set of implementations
// is closed: BasicInfo, ContactInfo and Findings.
type StepData interface {
	Step() Step
	apply(w *Wizard)
}

// BasicInfo identifies the factory and the date of the visit.
type BasicInfo struct {
	FactoryID            *uint  `json:"factoryId,omitempty"`
	FactoryName          string `json:"factoryName" validate:"required,notblank"`
	Inspector            string `json:"inspector" validate:"required,notblank"`
	FactoryAddress       string `json:"factoryAddress" validate:"required,notblank"`
	MapLink              string `json:"mapLink" validate:"omitempty,url"`
	HebrewDate           string `json:"hebrewDate"`
	HebrewDateOverridden bool   `json:"hebrewDateOverridden"`
	GregorianDate        string `json:"gregorianDate" validate:"required,datetime=2006-01-02"`
}

func (BasicInfo) Step() Step { return StepBasicInfo }

func (b BasicInfo) apply(w *Wizard) {
	w.basic = &b
}

// ContactInfo is the factory representative met on site.
type ContactInfo struct {
	ContactName  string `json:"contactName" validate:"required,notblank"`
	ContactPhone string `json:"contactPhone" validate:"required,notblank"`
	ContactEmail string `json:"contactEmail" validate:"omitempty,email"`
	ContactRole  string `json:"contactRole"`
}

func (ContactInfo) Step() Step { return StepContactInfo }

func (c ContactInfo) apply(w *Wizard) {
	w.contact = &c
}

// Findings is the outcome of the visit.
type Findings struct {
	Result  string `json:"result" validate:"required,oneof=passed failed conditional"`
	Summary string `json:"summary" validate:"required,notblank"`
	Notes   string `json:"notes"`
}

func (Findings) Step() Step { return StepFindings }

func (f Findings) apply(w *Wizard) {
	w.findings = &f
}
