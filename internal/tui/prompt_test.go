package tui

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/evolvedu/internal/account"
)

func keys(fields []huh.Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.GetKey())
	}
	return out
}

func TestIsInteractive(t *testing.T) {
	// The result depends on how tests are run; it must not panic.
	_ = IsInteractive()
}

func TestShouldPrompt_CI(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"GitHub Actions", "GITHUB_ACTIONS", "true"},
		{"GitLab CI", "GITLAB_CI", "true"},
		{"Jenkins", "JENKINS_URL", "http://jenkins.local"},
		{"Generic CI", "CI", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			assert.False(t, ShouldPrompt())
		})
	}
}

func TestLoginFields(t *testing.T) {
	tests := []struct {
		name string
		in   Credentials
		want []string
	}{
		{name: "nothing given", want: []string{"email", "password"}},
		{name: "email flag", in: Credentials{Email: "ada@example.com"}, want: []string{"password"}},
		{name: "everything given", in: Credentials{Email: "ada@example.com", Password: "secret1"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.in
			assert.Equal(t, tt.want, keys(loginFields(&c)))
		})
	}
}

func TestSignupFields(t *testing.T) {
	in := account.SignupInput{FirstName: "Ada", Email: "ada@example.com"}
	assert.Equal(t, []string{"last_name", "password", "confirm_password"}, keys(signupFields(&in)))

	full := account.SignupInput{FirstName: "A", LastName: "L", Email: "e", Password: "p", ConfirmPassword: "p"}
	assert.Empty(t, signupFields(&full))
}

func TestPasswordChangeFields(t *testing.T) {
	p := PasswordChange{Old: "secret1"}
	assert.Equal(t, []string{"new_password", "confirm_password"}, keys(passwordChangeFields(&p)))
}

func TestPromptLogin_NothingMissing(t *testing.T) {
	c := Credentials{Email: "ada@example.com", Password: "secret1"}
	require.NoError(t, PromptLogin(context.Background(), &c))
	assert.Equal(t, Credentials{Email: "ada@example.com", Password: "secret1"}, c)
}

func TestErrAborted(t *testing.T) {
	assert.ErrorIs(t, ErrAborted, context.Canceled)
}

func TestWithSpinner_NonInteractive(t *testing.T) {
	boom := stderrors.New("boom")
	calls := 0

	err := WithSpinner(context.Background(), false, "Loading", func(context.Context) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)

	err = WithSpinner(context.Background(), false, "Loading", func(context.Context) error { return nil })
	assert.NoError(t, err)
}
