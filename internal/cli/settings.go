package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"quizwiz/internal/app"
	"quizwiz/internal/domain"
	"quizwiz/internal/i18n"
)

// NewSettingsCmd shows the stored quiz settings, updating them first when flags are given.
func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or update quiz settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			rt, err := newRuntime(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			update, err := settingsUpdateFromFlags(cmd)
			if err != nil {
				return err
			}
			settings := rt.history.Settings()
			if !update.IsEmpty() {
				settings, err = rt.history.UpdateSettings(cmd.Context(), update)
				if err != nil {
					_, msg := i18n.Error(cmd.Context(), err)
					return fmt.Errorf("%s: %w", msg, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T(cmd.Context(), "SettingsSaved"))
			}

			known := app.Categories(cmd.Context(), rt.categories)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "amount:     %d\n", settings.Amount)
			fmt.Fprintf(out, "category:   %s (%s)\n", settings.Category, domain.CategoryLabel(settings.Category, known))
			fmt.Fprintf(out, "difficulty: %s\n", settings.Difficulty)
			fmt.Fprintf(out, "type:       %s\n", settings.Type)
			return nil
		},
	}
	f := cmd.Flags()
	f.Int("amount", 0, "number of questions (1-50)")
	f.String("category", "", "category id or any")
	f.String("difficulty", "", "easy, medium, hard or any")
	f.String("type", "", "multiple, boolean or any")
	return cmd
}

// settingsUpdateFromFlags includes only the flags the user actually set.
func settingsUpdateFromFlags(cmd *cobra.Command) (domain.SettingsUpdate, error) {
	var u domain.SettingsUpdate
	f := cmd.Flags()
	if f.Changed("amount") {
		v, err := f.GetInt("amount")
		if err != nil {
			return u, err
		}
		u.Amount = &v
	}
	for name, dst := range map[string]**string{
		"category":   &u.Category,
		"difficulty": &u.Difficulty,
		"type":       &u.Type,
	} {
		if !f.Changed(name) {
			continue
		}
		v, err := f.GetString(name)
		if err != nil {
			return u, err
		}
		*dst = &v
	}
	return u, nil
}
