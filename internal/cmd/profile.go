package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/evolvedu/internal/platform"
	"github.com/felixgeelhaar/evolvedu/internal/session"
	"github.com/felixgeelhaar/evolvedu/internal/tui"
)

func newProfileCmd() *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Update your profile or password",
		Long: `Update your EvolvEd AI profile.

Examples:
  evolvedu profile update --job "Engineer" --bio "Learning Go"
  evolvedu profile password`,
	}

	profileCmd.AddCommand(newProfileUpdateCmd(), newProfilePasswordCmd())
	return profileCmd
}

// profileFlags maps flag names to the profile fields they set.
var profileFlags = []struct {
	name  string
	usage string
	field func(*platform.ProfileUpdate) **string
}{
	{"username", "public username", func(u *platform.ProfileUpdate) **string { return &u.Username }},
	{"phone", "phone number", func(u *platform.ProfileUpdate) **string { return &u.Phone }},
	{"bio", "short bio", func(u *platform.ProfileUpdate) **string { return &u.Bio }},
	{"education", "current education", func(u *platform.ProfileUpdate) **string { return &u.CurrentEducation }},
	{"job", "current job", func(u *platform.ProfileUpdate) **string { return &u.CurrentJob }},
}

func newProfileUpdateCmd() *cobra.Command {
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields",
		Long:  `Change profile fields. Only the flags you pass are sent; pass an empty value to clear a field.`,
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

			var update platform.ProfileUpdate
			for _, pf := range profileFlags {
				if !cmd.Flags().Changed(pf.name) {
					continue
				}
				v, err := cmd.Flags().GetString(pf.name)
				if err != nil {
					return err
				}
				*pf.field(&update) = &v
			}

			var user *session.UserProfile
			err = r.call("Saving profile...", func(ctx context.Context) (err error) {
				user, err = svc.UpdateProfile(ctx, update)
				return err
			})
			if err != nil {
				return err
			}
			return r.render(user, userPanel("Profile", user))
		},
	}

	for _, pf := range profileFlags {
		updateCmd.Flags().String(pf.name, "", pf.usage)
	}
	return updateCmd
}

func newProfilePasswordCmd() *cobra.Command {
	var change tui.PasswordChange

	passwordCmd := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
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
				if err := tui.PromptPasswordChange(cmd.Context(), &change); err != nil {
					return err
				}
			}

			return r.call("Changing password...", func(ctx context.Context) error {
				return svc.ChangePassword(ctx, change.Old, change.New, change.Confirm)
			})
		},
	}

	f := passwordCmd.Flags()
	f.StringVar(&change.Old, "old", "", "current password")
	f.StringVar(&change.New, "new", "", "new password")
	f.StringVar(&change.Confirm, "confirm", "", "new password again")
	return passwordCmd
}
