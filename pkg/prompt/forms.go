package prompt

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/jaspreet-dot-casa/machine-init/pkg/userprov"
)

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ConfirmForm presents a yes/no confirmation with the shared theme. Without
// a terminal it falls back to a plain line-based prompt so piped or
// non-interactive stdin still gets a usable question.
func ConfirmForm(title, description string) (bool, error) {
	if !IsInteractive() {
		return plainConfirm(os.Stdin, os.Stderr, title, description)
	}

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).WithTheme(Theme())

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return confirmed, nil
}

// plainConfirm asks the question over raw reader/writer streams, reusing
// the tri-state Confirm loop with the description as its help text.
func plainConfirm(r io.Reader, w io.Writer, title, description string) (bool, error) {
	help := description
	if help == "" {
		help = title
	}
	resp, err := Confirm(r, w, title, help)
	if err != nil {
		return false, err
	}
	return resp == Yes, nil
}

// ComponentOption describes a selectable component.
type ComponentOption struct {
	ID          string
	Name        string
	Description string
	Selected    bool
}

// SelectComponents presents a multi-select of components and returns the
// chosen IDs.
func SelectComponents(options []ComponentOption) ([]string, error) {
	huhOptions := make([]huh.Option[string], 0, len(options))
	var selected []string
	for _, opt := range options {
		label := opt.Name
		if opt.Description != "" {
			label = fmt.Sprintf("%s: %s", opt.Name, opt.Description)
		}
		o := huh.NewOption(label, opt.ID)
		if opt.Selected {
			o = o.Selected(true)
			selected = append(selected, opt.ID)
		}
		huhOptions = append(huhOptions, o)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Components").
				Description("Select what to install (space toggles, enter confirms)").
				Options(huhOptions...).
				Value(&selected),
		),
	).WithTheme(Theme())

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}
	return selected, nil
}

// UserSpecForm collects a UserSpec interactively. Username and password
// validation happen inside the form so bad input re-prompts instead of
// failing the run; the confirmation loop repeats until both password
// entries match.
func UserSpecForm() (userprov.UserSpec, error) {
	var spec userprov.UserSpec

	userForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Description("Lowercase letters, digits, hyphens, and underscores").
				Placeholder("dev1").
				Value(&spec.Username).
				Validate(userprov.ValidateUsername),
		).Title("User Account"),
	).WithTheme(Theme())

	if err := userForm.Run(); err != nil {
		return spec, fmt.Errorf("form cancelled: %w", err)
	}

	for {
		var password, confirm string
		passwordForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Password").
					Description(fmt.Sprintf("At least %d characters", userprov.MinPasswordLength)).
					EchoMode(huh.EchoModePassword).
					Value(&password).
					Validate(userprov.ValidatePassword),
				huh.NewInput().
					Title("Confirm password").
					EchoMode(huh.EchoModePassword).
					Value(&confirm),
			),
		).WithTheme(Theme())

		if err := passwordForm.Run(); err != nil {
			return spec, fmt.Errorf("form cancelled: %w", err)
		}

		if err := userprov.ValidatePasswordConfirmation(password, confirm); err != nil {
			fmt.Fprintln(os.Stderr, "Passwords do not match, try again.")
			continue
		}
		spec.Password = password
		break
	}

	optionsForm := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Grant sudo access?").
				Value(&spec.GrantSudo),
			huh.NewConfirm().
				Title("Allow passwordless sudo?").
				Description("Writes a validated /etc/sudoers.d fragment").
				Value(&spec.PasswordlessSudo),
			huh.NewConfirm().
				Title("Add to docker group?").
				Value(&spec.DockerGroup),
		).Title("Privileges"),
	).WithTheme(Theme())

	if err := optionsForm.Run(); err != nil {
		return spec, fmt.Errorf("form cancelled: %w", err)
	}

	return spec, nil
}
