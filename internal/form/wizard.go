package form

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/mashg/internal/client"
	"github.com/bitfantasy/mashg/internal/hebdate"
	"github.com/bitfantasy/mashg/internal/inspection/entity"
	"go.uber.org/zap"
)

var (
	ErrWrongStep  = errors.New("data does not belong to the current step")
	ErrNotReady   = errors.New("form is not on the review step")
	ErrIncomplete = errors.New("form has unvalidated steps")
)

// Persister stores the finished record. *client.Client implements it.
type Persister interface {
	CreateInspection(ctx context.Context, in client.InspectionInput) (*entity.Inspection, error)
	UpdateInspection(ctx context.Context, id uint, in client.InspectionInput) (*entity.Inspection, error)
}

// Wizard walks the steps of one inspection. It is not safe for concurrent
// use; a form belongs to one user.
type Wizard struct {
	persister Persister
	logger    *zap.Logger
	now       func() time.Time

	current int
	editID  uint

	basic    *BasicInfo
	contact  *ContactInfo
	findings *Findings

	saved *entity.Inspection
}

type Option func(*Wizard)

func WithLogger(logger *zap.Logger) Option {
	return func(w *Wizard) {
		w.logger = logger
	}
}

// WithClock sets the source of "today" for new drafts.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) {
		w.now = now
	}
}

// Editing prefills every step from an existing record; Submit then updates
// it instead of creating a new one.
func Editing(insp *entity.Inspection) Option {
	return func(w *Wizard) {
		w.editID = insp.ID
		w.basic = &BasicInfo{
			FactoryID:            insp.FactoryID,
			FactoryName:          insp.FactoryName,
			Inspector:            insp.Inspector,
			FactoryAddress:       insp.FactoryAddress,
			MapLink:              insp.MapLink,
			HebrewDate:           insp.HebrewDate,
			HebrewDateOverridden: insp.HebrewDateOverridden,
			GregorianDate:        insp.GregorianDate,
		}
		w.contact = &ContactInfo{
			ContactName:  insp.ContactName,
			ContactPhone: insp.ContactPhone,
			ContactEmail: insp.ContactEmail,
			ContactRole:  insp.ContactRole,
		}
		w.findings = &Findings{
			Result:  insp.Result,
			Summary: insp.Summary,
			Notes:   insp.Notes,
		}
	}
}

func NewWizard(persister Persister, opts ...Option) *Wizard {
	w := &Wizard{
		persister: persister,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Current is the step awaiting input.
func (w *Wizard) Current() Step {
	return Steps[w.current]
}

// Next validates data for the current step. On success the data is merged
// and the wizard advances; on failure nothing changes.
func (w *Wizard) Next(data StepData) error {
	if data == nil || data.Step() != w.Current() {
		got := Step("none")
		if data != nil {
			got = data.Step()
		}
		return fmt.Errorf("%w: got %s on %s", ErrWrongStep, got, w.Current())
	}
	if err := validateStep(data); err != nil {
		w.logger.Debug("step rejected", zap.String("step", string(data.Step())), zap.Error(err))
		return err
	}

	data.apply(w)
	w.current++
	w.logger.Debug("step accepted", zap.String("step", string(data.Step())), zap.String("next", string(w.Current())))
	return nil
}

// Back returns to the previous step without validating anything.
func (w *Wizard) Back() {
	if w.current > 0 {
		w.current--
	}
}

// BasicInfo returns the merged basic info, if any.
func (w *Wizard) BasicInfo() (BasicInfo, bool) {
	if w.basic == nil {
		return BasicInfo{}, false
	}
	return *w.basic, true
}

func (w *Wizard) ContactInfo() (ContactInfo, bool) {
	if w.contact == nil {
		return ContactInfo{}, false
	}
	return *w.contact, true
}

func (w *Wizard) Findings() (Findings, bool) {
	if w.findings == nil {
		return Findings{}, false
	}
	return *w.findings, true
}

// BasicInfoDraft starts editing basic info from the merged values or, for
// a new form, from today's date.
func (w *Wizard) BasicInfoDraft() *BasicInfoDraft {
	if w.basic != nil {
		return &BasicInfoDraft{data: *w.basic, logger: w.logger}
	}
	d := &BasicInfoDraft{logger: w.logger}
	d.SetGregorianDate(w.now().Format(hebdate.Layout))
	return d
}

// Record is the finalized inspection; it exists only once every step has
// been merged.
func (w *Wizard) Record() (client.InspectionInput, error) {
	if w.basic == nil || w.contact == nil || w.findings == nil {
		return client.InspectionInput{}, ErrIncomplete
	}
	return client.InspectionInput{
		FactoryID:            w.basic.FactoryID,
		FactoryName:          w.basic.FactoryName,
		FactoryAddress:       w.basic.FactoryAddress,
		MapLink:              w.basic.MapLink,
		Inspector:            w.basic.Inspector,
		GregorianDate:        w.basic.GregorianDate,
		HebrewDate:           w.basic.HebrewDate,
		HebrewDateOverridden: w.basic.HebrewDateOverridden,
		ContactName:          w.contact.ContactName,
		ContactPhone:         w.contact.ContactPhone,
		ContactEmail:         w.contact.ContactEmail,
		ContactRole:          w.contact.ContactRole,
		Summary:              w.findings.Summary,
		Notes:                w.findings.Notes,
		Result:               w.findings.Result,
	}, nil
}

// Submit persists the record from the review step. The wizard reports Done
// only after the store accepted the write; a failed write leaves it on
// review so the caller can retry.
func (w *Wizard) Submit(ctx context.Context) (*entity.Inspection, error) {
	if w.Current() != StepReview {
		return nil, ErrNotReady
	}
	rec, err := w.Record()
	if err != nil {
		return nil, err
	}

	var saved *entity.Inspection
	if w.editID != 0 {
		saved, err = w.persister.UpdateInspection(ctx, w.editID, rec)
	} else {
		saved, err = w.persister.CreateInspection(ctx, rec)
	}
	if err != nil {
		w.logger.Warn("inspection submit failed", zap.Error(err))
		return nil, err
	}

	w.saved = saved
	w.editID = saved.ID
	w.logger.Info("inspection saved", zap.Uint("inspection_id", saved.ID))
	return saved, nil
}

// Done reports whether a submission succeeded.
func (w *Wizard) Done() bool {
	return w.saved != nil
}

// Saved is the record returned by the last successful Submit.
func (w *Wizard) Saved() *entity.Inspection {
	return w.saved
}
