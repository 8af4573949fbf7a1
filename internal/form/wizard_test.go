package form

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bitfantasy/mashg/internal/client"
	"github.com/bitfantasy/mashg/internal/inspection/entity"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakePersister struct {
	created []client.InspectionInput
	updated map[uint]client.InspectionInput
	err     error
}

func (p *fakePersister) CreateInspection(_ context.Context, in client.InspectionInput) (*entity.Inspection, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.created = append(p.created, in)
	return &entity.Inspection{ID: uint(len(p.created)), FactoryName: in.FactoryName, HebrewDate: in.HebrewDate}, nil
}

func (p *fakePersister) UpdateInspection(_ context.Context, id uint, in client.InspectionInput) (*entity.Inspection, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.updated == nil {
		p.updated = map[uint]client.InspectionInput{}
	}
	p.updated[id] = in
	return &entity.Inspection{ID: id, FactoryName: in.FactoryName}, nil
}

func newYearsDay() time.Time {
	return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
}

func validBasic() BasicInfo {
	return BasicInfo{
		FactoryName:    "Acme Foods",
		Inspector:      "Dana Levi",
		FactoryAddress: "1 Industrial Rd",
		GregorianDate:  "2024-01-01",
		HebrewDate:     "20 Tevet 5784",
	}
}

func validContact() ContactInfo {
	return ContactInfo{ContactName: "Avi", ContactPhone: "050-0000000"}
}

func validFindings() Findings {
	return Findings{Result: "passed", Summary: "All lines clean"}
}

func TestHebrewDateFlowsIntoSubmittedRecord(t *testing.T) {
	p := &fakePersister{}
	w := NewWizard(p, WithClock(newYearsDay))

	draft := w.BasicInfoDraft()
	draft.SetFactoryName("Acme Foods")
	draft.SetInspector("Dana Levi")
	draft.SetFactoryAddress("1 Industrial Rd")
	draft.SetGregorianDate("2024-01-01")
	if got := draft.Data().HebrewDate; got != "20 Tevet 5784" {
		t.Fatalf("expected derived hebrew date, got %q", got)
	}

	steps := []StepData{draft.Data(), validContact(), validFindings()}
	for _, data := range steps {
		if err := w.Next(data); err != nil {
			t.Fatalf("Next(%s): %v", data.Step(), err)
		}
	}
	if w.Current() != StepReview {
		t.Fatalf("expected review, got %s", w.Current())
	}

	saved, err := w.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !w.Done() || saved.ID != 1 {
		t.Fatalf("expected done with saved id 1, got %+v", saved)
	}
	if len(p.created) != 1 || p.created[0].HebrewDate != "20 Tevet 5784" {
		t.Fatalf("expected hebrew date submitted verbatim, got %+v", p.created)
	}
}

func TestNewDraftDefaultsToToday(t *testing.T) {
	w := NewWizard(&fakePersister{}, WithClock(newYearsDay))
	data := w.BasicInfoDraft().Data()
	if data.GregorianDate != "2024-01-01" || data.HebrewDate != "20 Tevet 5784" {
		t.Fatalf("unexpected defaults %+v", data)
	}
}

func TestMissingRequiredFieldsRejectWithoutMerging(t *testing.T) {
	cases := []struct {
		field string
		clear func(*BasicInfo)
	}{
		{"factoryName", func(b *BasicInfo) { b.FactoryName = "" }},
		{"inspector", func(b *BasicInfo) { b.Inspector = "" }},
		{"factoryAddress", func(b *BasicInfo) { b.FactoryAddress = "   " }},
		{"gregorianDate", func(b *BasicInfo) { b.GregorianDate = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			w := NewWizard(&fakePersister{})
			data := validBasic()
			tc.clear(&data)

			err := w.Next(data)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Fatalf("expected %s in %v", tc.field, verr.Fields)
			}
			if w.Current() != StepBasicInfo {
				t.Fatalf("expected to stay on basic info, got %s", w.Current())
			}
			if _, ok := w.BasicInfo(); ok {
				t.Fatal("expected nothing merged")
			}
		})
	}
}

func TestMapLinkValidation(t *testing.T) {
	cases := []struct {
		link string
		ok   bool
	}{
		{"", true},
		{"https://maps.example.com/?q=acme", true},
		{"not a url", false},
		{"example.com", false},
	}
	for _, tc := range cases {
		w := NewWizard(&fakePersister{})
		data := validBasic()
		data.MapLink = tc.link
		err := w.Next(data)
		if tc.ok && err != nil {
			t.Errorf("mapLink %q: unexpected error %v", tc.link, err)
		}
		var verr *ValidationError
		if !tc.ok && (!errors.As(err, &verr) || verr.Fields["mapLink"] == "") {
			t.Errorf("mapLink %q: expected mapLink ValidationError, got %v", tc.link, err)
		}
	}
}

func TestBlankHebrewDateDoesNotBlock(t *testing.T) {
	w := NewWizard(&fakePersister{})
	data := validBasic()
	data.HebrewDate = ""
	if err := w.Next(data); err != nil {
		t.Fatalf("expected blank hebrew date accepted, got %v", err)
	}
}

func TestWrongStepDataRejected(t *testing.T) {
	w := NewWizard(&fakePersister{})
	if err := w.Next(validContact()); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("expected ErrWrongStep, got %v", err)
	}
	if err := w.Next(nil); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("expected ErrWrongStep for nil, got %v", err)
	}
}

func TestBackSkipsValidation(t *testing.T) {
	w := NewWizard(&fakePersister{})
	w.Back()
	if w.Current() != StepBasicInfo {
		t.Fatalf("expected back on first step to be a no-op, got %s", w.Current())
	}

	if err := w.Next(validBasic()); err != nil {
		t.Fatal(err)
	}
	w.Back()
	if w.Current() != StepBasicInfo {
		t.Fatalf("expected basic info, got %s", w.Current())
	}
	// merged data survives going back and seeds the draft
	if d := w.BasicInfoDraft().Data(); d.FactoryName != "Acme Foods" {
		t.Fatalf("expected draft from merged data, got %+v", d)
	}
}

func TestSubmitRequiresReviewAndSurfacesFailures(t *testing.T) {
	p := &fakePersister{err: errors.New("network down")}
	w := NewWizard(p)

	if _, err := w.Submit(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	for _, data := range []StepData{validBasic(), validContact(), validFindings()} {
		if err := w.Next(data); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := w.Submit(context.Background()); err == nil || w.Done() {
		t.Fatalf("expected failure and not done, got err=%v done=%v", err, w.Done())
	}
	if w.Current() != StepReview {
		t.Fatalf("expected to stay on review, got %s", w.Current())
	}

	p.err = nil
	if _, err := w.Submit(context.Background()); err != nil || !w.Done() {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}

func TestEditingUpdatesExistingRecord(t *testing.T) {
	p := &fakePersister{}
	existing := &entity.Inspection{
		ID: 42, FactoryName: "Acme Foods", FactoryAddress: "1 Industrial Rd",
		Inspector: "Dana Levi", GregorianDate: "2024-01-01", HebrewDate: "20 Tevet 5784",
		ContactName: "Avi", ContactPhone: "050", Result: "failed", Summary: "dirty",
	}
	w := NewWizard(p, Editing(existing))

	basic, _ := w.BasicInfo()
	contact, _ := w.ContactInfo()
	findings, _ := w.Findings()
	findings.Result = "passed"
	for _, data := range []StepData{basic, contact, findings} {
		if err := w.Next(data); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := w.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(p.created) != 0 || p.updated[42].Result != "passed" {
		t.Fatalf("expected update of 42, got created=%v updated=%v", p.created, p.updated)
	}
}

func TestOverrideSurvivesGregorianEdits(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	w := NewWizard(&fakePersister{}, WithClock(newYearsDay), WithLogger(zap.New(core)))
	d := w.BasicInfoDraft()

	d.OverrideHebrewDate("Rosh Chodesh")
	d.SetGregorianDate("2024-04-23")
	if d.Data().HebrewDate != "Rosh Chodesh" || !d.Data().HebrewDateOverridden {
		t.Fatalf("expected override kept, got %+v", d.Data())
	}

	d.ClearOverride()
	if d.Data().HebrewDate != "15 Nisan 5784" {
		t.Fatalf("expected re-derived date, got %q", d.Data().HebrewDate)
	}

	d.SetGregorianDate("garbage")
	if d.Data().HebrewDate != "" {
		t.Fatalf("expected blank on conversion failure, got %q", d.Data().HebrewDate)
	}
	if logs.FilterMessage("hebrew date conversion failed").Len() != 1 {
		t.Fatalf("expected one logged conversion failure, got %d", logs.Len())
	}
}

func TestValidationErrorMessage(t *testing.T) {
	w := NewWizard(&fakePersister{})
	err := w.Next(ContactInfo{ContactEmail: "nope"})
	if !errors.Is(err, ErrWrongStep) {
		t.Fatalf("expected wrong step first, got %v", err)
	}

	w.Next(validBasic())
	err = w.Next(ContactInfo{ContactEmail: "nope"})
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 3 {
		t.Fatalf("expected three field errors, got %v", err)
	}
	if verr.Fields["contactEmail"] != "contactEmail must be a valid email address" {
		t.Errorf("unexpected message %q", verr.Fields["contactEmail"])
	}
}

func TestStepTitle(t *testing.T) {
	if StepContactInfo.Title() != "Contact Info" {
		t.Fatalf("unexpected title %q", StepContactInfo.Title())
	}
}
