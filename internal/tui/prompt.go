package tui

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"

	"github.com/felixgeelhaar/evolvedu/internal/account"
)

// ErrAborted is returned when the user quits a form. It wraps
// context.Canceled so callers treat it like any other cancellation.
var ErrAborted = fmt.Errorf("aborted by user: %w", context.Canceled)

// Credentials are collected by the login form.
type Credentials struct {
	Email    string
	Password string
}

// PasswordChange is collected by the change-password form.
type PasswordChange struct {
	Old     string
	New     string
	Confirm string
}

func emailInput(v *string) *huh.Input {
	return huh.NewInput().
		Key("email").
		Title("Email").
		Placeholder("you@example.com").
		Value(v)
}

func passwordInput(key, title string, v *string) *huh.Input {
	return huh.NewInput().
		Key(key).
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(v)
}

// loginFields returns inputs for the credentials not given on the command line.
func loginFields(c *Credentials) []huh.Field {
	var fields []huh.Field
	if c.Email == "" {
		fields = append(fields, emailInput(&c.Email))
	}
	if c.Password == "" {
		fields = append(fields, passwordInput("password", "Password", &c.Password))
	}
	return fields
}

func signupFields(in *account.SignupInput) []huh.Field {
	var fields []huh.Field
	if in.FirstName == "" {
		fields = append(fields, huh.NewInput().Key("first_name").Title("First name").Value(&in.FirstName))
	}
	if in.LastName == "" {
		fields = append(fields, huh.NewInput().Key("last_name").Title("Last name").Value(&in.LastName))
	}
	if in.Email == "" {
		fields = append(fields, emailInput(&in.Email))
	}
	if in.Password == "" {
		fields = append(fields, passwordInput("password", "Password", &in.Password).
			Description(fmt.Sprintf("At least %d characters", account.MinPasswordLength)))
	}
	if in.ConfirmPassword == "" {
		fields = append(fields, passwordInput("confirm_password", "Confirm password", &in.ConfirmPassword))
	}
	return fields
}

func passwordChangeFields(p *PasswordChange) []huh.Field {
	var fields []huh.Field
	if p.Old == "" {
		fields = append(fields, passwordInput("old_password", "Current password", &p.Old))
	}
	if p.New == "" {
		fields = append(fields, passwordInput("new_password", "New password", &p.New))
	}
	if p.Confirm == "" {
		fields = append(fields, passwordInput("confirm_password", "Confirm new password", &p.Confirm))
	}
	return fields
}

func runFields(ctx context.Context, title string, fields []huh.Field) error {
	if len(fields) == 0 {
		return nil
	}

	form := huh.NewForm(huh.NewGroup(fields...).Title(title))
	if err := form.RunWithContext(ctx); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

// PromptLogin asks for whatever credentials are still empty.
func PromptLogin(ctx context.Context, c *Credentials) error {
	return runFields(ctx, "Welcome back", loginFields(c))
}

// PromptSignup asks for whatever signup fields are still empty.
func PromptSignup(ctx context.Context, in *account.SignupInput) error {
	return runFields(ctx, "Create your account", signupFields(in))
}

// PromptPasswordChange asks for whatever password fields are still empty.
func PromptPasswordChange(ctx context.Context, p *PasswordChange) error {
	return runFields(ctx, "Change password", passwordChangeFields(p))
}

// PromptForConfirmation displays a yes/no confirmation prompt
func PromptForConfirmation(message string, defaultValue bool) (bool, error) {
	confirmed := defaultValue

	confirm := huh.NewConfirm().
		Title(message).
		Value(&confirmed)

	form := huh.NewForm(huh.NewGroup(confirm))

	if err := form.Run(); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return false, ErrAborted
		}
		return false, fmt.Errorf("prompt failed: %w", err)
	}

	return confirmed, nil
}

// WithSpinner runs action while a spinner titled title is shown. The spinner
// stops when action returns, whether it failed or not. Without a terminal
// the action runs on its own.
func WithSpinner(ctx context.Context, interactive bool, title string, action func(context.Context) error) error {
	if !interactive {
		return action(ctx)
	}

	var actionErr error
	err := spinner.New().
		Title(title).
		Context(ctx).
		Output(os.Stderr).
		ActionWithErr(func(ctx context.Context) error {
			actionErr = action(ctx)
			return nil
		}).
		Run()
	if actionErr != nil {
		return actionErr
	}
	return err
}

// IsInteractive returns true if stdin is a terminal (not piped)
func IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// ShouldPrompt returns true if prompts should be shown based on environment
// Prompts are disabled in CI environments or when stdin is not a terminal
func ShouldPrompt() bool {
	// Check common CI environment variables
	ciEnvVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"TRAVIS",
		"CIRCLECI",
		"BUILDKITE",
	}

	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return false
		}
	}

	return IsInteractive()
}
