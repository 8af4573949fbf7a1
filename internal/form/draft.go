package form

import (
	"github.com/bitfantasy/mashg/internal/hebdate"
	"go.uber.org/zap"
)

// BasicInfoDraft is the editable state of the basic info step. The Hebrew
// date follows the Gregorian date until it is overridden by hand.
type BasicInfoDraft struct {
	data   BasicInfo
	logger *zap.Logger
}

func (d *BasicInfoDraft) SetFactory(id *uint, name, address, mapLink string) {
	d.data.FactoryID = id
	d.data.FactoryName = name
	d.data.FactoryAddress = address
	d.data.MapLink = mapLink
}

func (d *BasicInfoDraft) SetFactoryName(name string)       { d.data.FactoryName = name }
func (d *BasicInfoDraft) SetFactoryAddress(address string) { d.data.FactoryAddress = address }
func (d *BasicInfoDraft) SetMapLink(link string)           { d.data.MapLink = link }
func (d *BasicInfoDraft) SetInspector(name string)         { d.data.Inspector = name }

// SetGregorianDate stores date and, unless overridden, recomputes the
// Hebrew date. An unconvertible date blanks the Hebrew date and is logged.
func (d *BasicInfoDraft) SetGregorianDate(date string) {
	d.data.GregorianDate = date
	if d.data.HebrewDateOverridden {
		return
	}
	d.derive()
}

// OverrideHebrewDate pins a manual value that later Gregorian edits keep.
func (d *BasicInfoDraft) OverrideHebrewDate(value string) {
	d.data.HebrewDate = value
	d.data.HebrewDateOverridden = true
}

// ClearOverride drops the manual value and derives the date again.
func (d *BasicInfoDraft) ClearOverride() {
	d.data.HebrewDateOverridden = false
	d.derive()
}

func (d *BasicInfoDraft) derive() {
	hebrew, err := hebdate.Convert(d.data.GregorianDate)
	if err != nil {
		if d.logger == nil {
			d.logger = zap.NewNop()
		}
		d.logger.Warn("hebrew date conversion failed",
			zap.String("gregorian_date", d.data.GregorianDate),
			zap.Error(err))
		d.data.HebrewDate = ""
		return
	}
	d.data.HebrewDate = hebrew
}

// Data is the step payload to pass to Wizard.Next.
func (d *BasicInfoDraft) Data() BasicInfo {
	return d.data
}
