package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tgienger/tick/internal/models"
	"github.com/tgienger/tick/internal/theme"
)

func newThemeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|system]",
		Short:     "Show or set the theme preference",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(models.ThemeLight), string(models.ThemeDark), string(models.ThemeSystem)},
		RunE: func(cmd *cobra.Command, args []string) error {
			var mode models.ThemeMode
			if len(args) == 1 {
				m, err := models.ParseThemeMode(args[0])
				if err != nil {
					return err
				}
				mode = m
			}

			e, err := openEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			if mode == "" {
				fmt.Fprintln(cmd.OutOrStdout(), theme.Load(e.db, e.logger).Mode())
				return nil
			}

			// write directly so a storage failure reaches the user
			if err := e.db.SetSetting(theme.StorageKey, string(mode)); err != nil {
				return fmt.Errorf("saving theme: %w", err)
			}
			e.logger.Info("theme set from command line", "mode", mode)
			fmt.Fprintf(cmd.OutOrStdout(), "theme set to %s\n", mode)
			return nil
		},
	}
}
