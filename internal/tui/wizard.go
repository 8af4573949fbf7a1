// Package tui is the terminal front end of the inspection form.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bitfantasy/mashg/internal/form"
	"github.com/bitfantasy/mashg/internal/inspection/entity"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type field struct {
	key   string
	label string
	input textinput.Model
}

func newField(key, label, value, placeholder string) field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 500
	ti.Width = 50
	ti.SetValue(value)
	return field{key: key, label: label, input: ti}
}

type submittedMsg struct {
	inspection *entity.Inspection
	err        error
}

// WizardModel renders a form.Wizard as a bubbletea program.
type WizardModel struct {
	wizard  *form.Wizard
	draft   *form.BasicInfoDraft
	timeout time.Duration

	// step and review mirror the wizard so View never reads it while a
	// submit runs in the background.
	step   form.Step
	review string
	fields []field
	focus  int
	errs   map[string]string

	saving   bool
	saved    *entity.Inspection
	err      error
	quitting bool
}

func NewWizardModel(w *form.Wizard) *WizardModel {
	m := &WizardModel{wizard: w, timeout: 30 * time.Second}
	m.load()
	return m
}

// Saved is the persisted inspection once the form completed.
func (m *WizardModel) Saved() *entity.Inspection {
	return m.saved
}

func (m *WizardModel) Init() tea.Cmd {
	return textinput.Blink
}

// load rebuilds the inputs for the wizard's current step.
func (m *WizardModel) load() {
	m.errs = nil
	m.err = nil
	m.focus = 0
	m.review = ""
	m.step = m.wizard.Current()

	switch m.step {
	case form.StepBasicInfo:
		m.draft = m.wizard.BasicInfoDraft()
		d := m.draft.Data()
		m.fields = []field{
			newField("factoryName", "Factory name", d.FactoryName, "required"),
			newField("factoryAddress", "Factory address", d.FactoryAddress, "required"),
			newField("mapLink", "Map link", d.MapLink, "https://..."),
			newField("inspector", "Inspector", d.Inspector, "required"),
			newField("gregorianDate", "Date", d.GregorianDate, "YYYY-MM-DD"),
			newField("hebrewDate", "Hebrew date", d.HebrewDate, "derived from the date"),
		}
	case form.StepContactInfo:
		c, _ := m.wizard.ContactInfo()
		m.fields = []field{
			newField("contactName", "Contact name", c.ContactName, "required"),
			newField("contactPhone", "Phone", c.ContactPhone, "required"),
			newField("contactEmail", "Email", c.ContactEmail, "optional"),
			newField("contactRole", "Role", c.ContactRole, "optional"),
		}
	case form.StepFindings:
		f, _ := m.wizard.Findings()
		m.fields = []field{
			newField("result", "Result", f.Result, strings.Join(entity.ValidInspectionResults, " | ")),
			newField("summary", "Summary", f.Summary, "required"),
			newField("notes", "Notes", f.Notes, "optional"),
		}
	default:
		m.fields = nil
		m.review = m.reviewView()
	}
	m.focusField(0)
}

func (m *WizardModel) focusField(i int) {
	if len(m.fields) == 0 {
		return
	}
	if i < 0 {
		i = len(m.fields) - 1
	}
	if i >= len(m.fields) {
		i = 0
	}
	for j := range m.fields {
		m.fields[j].input.Blur()
	}
	m.focus = i
	m.fields[i].input.Focus()
}

func (m *WizardModel) value(key string) string {
	for _, f := range m.fields {
		if f.key == key {
			return strings.TrimSpace(f.input.Value())
		}
	}
	return ""
}

func (m *WizardModel) setValue(key, value string) {
	for i := range m.fields {
		if m.fields[i].key == key {
			m.fields[i].input.SetValue(value)
		}
	}
}

// collect builds the step payload from the inputs.
func (m *WizardModel) collect() form.StepData {
	switch m.wizard.Current() {
	case form.StepBasicInfo:
		m.draft.SetFactoryName(m.value("factoryName"))
		m.draft.SetFactoryAddress(m.value("factoryAddress"))
		m.draft.SetMapLink(m.value("mapLink"))
		m.draft.SetInspector(m.value("inspector"))
		return m.draft.Data()
	case form.StepContactInfo:
		return form.ContactInfo{
			ContactName:  m.value("contactName"),
			ContactPhone: m.value("contactPhone"),
			ContactEmail: m.value("contactEmail"),
			ContactRole:  m.value("contactRole"),
		}
	case form.StepFindings:
		return form.Findings{
			Result:  m.value("result"),
			Summary: m.value("summary"),
			Notes:   m.value("notes"),
		}
	}
	return nil
}

func (m *WizardModel) advance() tea.Cmd {
	err := m.wizard.Next(m.collect())
	var verr *form.ValidationError
	if errors.As(err, &verr) {
		m.errs = verr.Fields
		return nil
	}
	if err != nil {
		m.err = err
		return nil
	}
	m.load()
	return nil
}

func (m *WizardModel) submit() tea.Cmd {
	m.saving = true
	m.err = nil
	w := m.wizard
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		insp, err := w.Submit(ctx)
		return submittedMsg{inspection: insp, err: err}
	}
}

// syncDates keeps the Hebrew date input in step with the draft after an
// edit of either date field.
func (m *WizardModel) syncDates(key string) {
	if m.wizard.Current() != form.StepBasicInfo {
		return
	}
	switch key {
	case "gregorianDate":
		m.draft.SetGregorianDate(m.value("gregorianDate"))
		m.setValue("hebrewDate", m.draft.Data().HebrewDate)
	case "hebrewDate":
		if v := m.value("hebrewDate"); v == "" {
			m.draft.ClearOverride()
			m.setValue("hebrewDate", m.draft.Data().HebrewDate)
		} else {
			m.draft.OverrideHebrewDate(v)
		}
	}
}

func (m *WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		m.saving = false
		m.err = msg.err
		if msg.err == nil {
			m.saved = msg.inspection
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

		if m.saving {
			return m, nil
		}
		if m.saved != nil {
			if msg.String() == "enter" || msg.String() == "q" {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "esc":
			m.wizard.Back()
			m.load()
			return m, nil
		case "tab", "down":
			m.focusField(m.focus + 1)
			return m, nil
		case "shift+tab", "up":
			m.focusField(m.focus - 1)
			return m, nil
		case "enter":
			if m.step == form.StepReview {
				return m, m.submit()
			}
			if m.focus < len(m.fields)-1 {
				m.focusField(m.focus + 1)
				return m, nil
			}
			return m, m.advance()
		}
	}

	if m.saving || len(m.fields) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	before := m.fields[m.focus].input.Value()
	m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)
	if m.fields[m.focus].input.Value() != before {
		m.syncDates(m.fields[m.focus].key)
	}
	return m, cmd
}

func (m *WizardModel) View() string {
	if m.quitting {
		if m.saved != nil {
			return successStyle.Render(fmt.Sprintf("Inspection #%d saved.", m.saved.ID)) + "\n"
		}
		return "Form closed without saving.\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Factory inspection"))
	b.WriteString("\n")

	current := m.step
	for i, step := range form.Steps {
		label := fmt.Sprintf("%d. %s", i+1, step.Title())
		if step == current {
			label = stepStyle.Render("[" + label + "]")
		}
		b.WriteString(label + "  ")
	}
	b.WriteString("\n")

	var body strings.Builder
	if current == form.StepReview {
		body.WriteString(m.review)
	} else {
		for _, f := range m.fields {
			body.WriteString(labelStyle.Render(f.label) + "\n")
			body.WriteString(f.input.View() + "\n")
			if msg, ok := m.errs[f.key]; ok {
				body.WriteString(errorStyle.Render(msg) + "\n")
			}
		}
	}
	b.WriteString(formStyle.Render(body.String()))
	b.WriteString("\n")

	switch {
	case m.saving:
		b.WriteString(warningStyle.Render("Saving..."))
	case m.saved != nil:
		b.WriteString(successStyle.Render(fmt.Sprintf("Saved inspection #%d. Press enter to exit.", m.saved.ID)))
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		if current == form.StepReview {
			b.WriteString(helpStyle.Render(" Press enter to retry."))
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab/shift+tab: move • enter: next • esc: back • ctrl+c: quit"))
	return b.String()
}

func (m *WizardModel) reviewView() string {
	rec, err := m.wizard.Record()
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	rows := [][2]string{
		{"Factory", rec.FactoryName},
		{"Address", rec.FactoryAddress},
		{"Map link", rec.MapLink},
		{"Inspector", rec.Inspector},
		{"Date", rec.GregorianDate},
		{"Hebrew date", rec.HebrewDate},
		{"Contact", rec.ContactName},
		{"Phone", rec.ContactPhone},
		{"Email", rec.ContactEmail},
		{"Role", rec.ContactRole},
		{"Result", rec.Result},
		{"Summary", rec.Summary},
		{"Notes", rec.Notes},
	}
	var b strings.Builder
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		b.WriteString(labelStyle.Render(r[0]+": ") + r[1] + "\n")
	}
	return b.String()
}
