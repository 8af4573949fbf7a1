package main

import (
	"fmt"
	"strconv"

	"github.com/bitfantasy/mashg/internal/form"
	"github.com/bitfantasy/mashg/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Fill in a new inspection",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		return runWizard(form.NewWizard(c, form.WithLogger(zapLogger)))
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <inspection-id>",
	Short: "Edit an existing inspection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid inspection id %q", args[0])
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		insp, err := c.GetInspection(cmd.Context(), uint(id))
		if err != nil {
			return err
		}
		if insp == nil {
			return fmt.Errorf("inspection %d not found", id)
		}
		return runWizard(form.NewWizard(c, form.WithLogger(zapLogger), form.Editing(insp)))
	},
}

func runWizard(w *form.Wizard) error {
	model := tui.NewWizardModel(w)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("run form: %w", err)
	}
	if saved := model.Saved(); saved != nil {
		fmt.Printf("Inspection #%d saved (%s, %s)\n", saved.ID, saved.GregorianDate, saved.HebrewDate)
	}
	return nil
}
