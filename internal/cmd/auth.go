package cmd

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/evolvedu/internal/account"
	"github.com/felixgeelhaar/evolvedu/internal/session"
	"github.com/felixgeelhaar/evolvedu/internal/tui"
	"github.com/felixgeelhaar/evolvedu/internal/ux"
)

func newAuthCmd() *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, sign up and manage your session",
		Long: `Manage your EvolvEd AI session.

Examples:
  # Sign in (prompts for anything not given as a flag)
  evolvedu auth login --email ada@example.com

  # Create an account
  evolvedu auth signup

  # Show the stored session without contacting the server
  evolvedu auth status

  # Fetch your profile from the server
  evolvedu auth whoami`,
	}

	authCmd.AddCommand(
		newAuthLoginCmd(),
		newAuthSignupCmd(),
		newAuthLogoutCmd(),
		newAuthStatusCmd(),
		newAuthWhoamiCmd(),
	)
	return authCmd
}

func newAuthLoginCmd() *cobra.Command {
	var creds tui.Credentials

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to EvolvEd AI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := mustRuntime(cmd)
			if err != nil {
				return err
			}
			svc, err := r.account()
			if err != nil {
				return err
			}

			if r.interactive {
				if err := tui.PromptLogin(cmd.Context(), &creds); err != nil {
					return err
				}
			}

			var user *session.UserProfile
			err = r.call("Signing in...", func(ctx context.Context) (err error) {
				user, err = svc.Login(ctx, creds.Email, creds.Password)
				return err
			})
			if err != nil {
				return err
			}
			return r.render(user, userPanel("Signed in", user))
		},
	}

	loginCmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	loginCmd.Flags().StringVar(&creds.Password, "password", "", "account password (prompted when omitted)")
	return loginCmd
}

func newAuthSignupCmd() *cobra.Command {
	var in account.SignupInput

	signupCmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an EvolvEd AI account",
		Long: `Create an EvolvEd AI account.

If the server returns a session you are signed in right away; otherwise run
'evolvedu auth login' afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := mustRuntime(cmd)
			if err != nil {
				return err
			}
			svc, err := r.account()
			if err != nil {
				return err
			}

			if r.interactive {
				if err := tui.PromptSignup(cmd.Context(), &in); err != nil {
					return err
				}
			}

			var res *account.SignupResult
			err = r.call("Creating account...", func(ctx context.Context) (err error) {
				res, err = svc.Signup(ctx, in)
				return err
			})
			if err != nil {
				return err
			}

			title := "Account created"
			if res.LoggedIn {
				title = "Account created and signed in"
			}
			return r.render(res, userPanel(title, res.User))
		},
	}

	f := signupCmd.Flags()
	f.StringVar(&in.FirstName, "first-name", "", "first name")
	f.StringVar(&in.LastName, "last-name", "", "last name")
	f.StringVar(&in.Email, "email", "", "account email")
	f.StringVar(&in.Password, "password", "", "password (prompted when omitted)")
	f.StringVar(&in.ConfirmPassword, "confirm-password", "", "password again")
	return signupCmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Long:  `Remove the stored session for the configured API. Running it twice is harmless.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := mustRuntime(cmd)
			if err != nil {
				return err
			}
			svc, err := r.account()
			if err != nil {
				return err
			}
			return svc.Logout()
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		Long:  `Show the stored session without contacting the server.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := mustRuntime(cmd)
			if err != nil {
				return err
			}
			svc, err := r.account()
			if err != nil {
				return err
			}

			st := svc.Status()
			return r.render(st, statusPanel(st, r.baseURL))
		},
	}
}

func newAuthWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Fetch your profile from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := mustRuntime(cmd)
			if err != nil {
				return err
			}
			svc, err := r.account()
			if err != nil {
				return err
			}

			var user *session.UserProfile
			err = r.call("Loading profile...", func(ctx context.Context) (err error) {
				user, err = svc.Whoami(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return r.render(user, userPanel(user.DisplayName(), user))
		},
	}
}

func userPanel(title string, u *session.UserProfile) ux.Panel {
	p := ux.Panel{Title: title}
	if u == nil {
		return p
	}
	p.Add("Name", u.DisplayName()).
		Add("Email", u.Email).
		Add("Username", u.Username).
		Add("Role", u.Role).
		Add("Level", u.CurrentLevel).
		Add("Education", u.CurrentEducation).
		Add("Job", u.CurrentJob).
		Add("Phone", u.Phone).
		Add("Bio", u.Bio)
	if u.ID != 0 {
		p.Add("ID", strconv.FormatInt(u.ID, 10))
	}
	return p
}

func statusPanel(st account.Status, apiURL string) ux.Panel {
	if !st.LoggedIn {
		p := ux.Panel{Title: "Not logged in"}
		p.Add("API", apiURL).Add("Next", "evolvedu auth login")
		return p
	}

	p := ux.Panel{Title: "Logged in"}
	p.Add("User", st.User.DisplayName()).
		Add("Email", st.User.Email).
		Add("API", apiURL)
	if st.ExpiresAt != nil {
		expiry := st.ExpiresAt.Local().Format(time.RFC1123)
		if st.Expired {
			expiry += " (expired)"
		}
		p.Add("Expires", expiry)
	}
	return p
}
