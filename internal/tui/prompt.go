package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// ConfirmFn is a function variable for the confirmation prompt.
// It defaults to confirm but can be overridden in tests.
var ConfirmFn = confirm

// Confirm asks the user a yes/no question with the given title and
// description. Callers must check IsInteractive first.
func Confirm(title, description string) (bool, error) {
	return ConfirmFn(title, description)
}

func confirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Spin runs fn behind an animated spinner when the session is interactive,
// and plainly otherwise. The returned error is fn's error unless the
// spinner itself failed.
func Spin(title string, fn func() error) error {
	if !IsInteractive() {
		return fn()
	}

	var err error
	if spinErr := spinner.New().Title(title).Action(func() { err = fn() }).Run(); spinErr != nil {
		return spinErr
	}
	return err
}
