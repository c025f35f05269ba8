package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"tfsettings/internal/services/settings"
)

func newSettingsCommand(o *rootOptions) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect or create the tfsettings settings file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective settings to the settings file",
		Long: `Write the effective settings (defaults, settings file, TFSETTINGS_* environment
and flags combined) to the settings file. An existing file is kept unless
--force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSettingsInit(cmd, o, force)
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing settings file")

	var fromFile bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as YAML",
		Long: `Print the effective settings as YAML. With --file, print what the settings
file holds instead, with defaults filled in for missing keys.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSettingsShow(cmd, o, fromFile)
		},
	}
	showCmd.Flags().BoolVar(&fromFile, "file", false, "Show the stored settings file instead of the effective settings")

	settingsCmd.AddCommand(initCmd, showCmd)
	return settingsCmd
}

func runSettingsInit(cmd *cobra.Command, o *rootOptions, force bool) error {
	a := o.application
	path := a.Config.SettingsPath
	if path == "" {
		return errors.New("no settings path: set --settings or HOME")
	}

	_, err := a.FileSystem.Stat(path)
	switch {
	case err == nil && !force:
		return fmt.Errorf("settings file %s already exists (use --force to overwrite)", path)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("failed to check settings file: %w", err)
	}

	repo, err := a.SettingsRepository()
	if err != nil {
		return err
	}
	if err := repo.Save(cmd.Context(), a.Config.Settings); err != nil {
		return err
	}

	a.UI.Successf("Wrote settings to %s", repo.Path())
	return nil
}

func runSettingsShow(cmd *cobra.Command, o *rootOptions, fromFile bool) error {
	a := o.application
	shown := a.Config.Settings
	if fromFile {
		if a.Config.SettingsPath == "" {
			return errors.New("no settings path: set --settings or HOME")
		}
		repo, err := a.SettingsRepository()
		if err != nil {
			return err
		}
		shown = repo.Get(cmd.Context())
	}

	data, err := settings.Marshal(shown)
	if err != nil {
		return fmt.Errorf("failed to render settings: %w", err)
	}
	a.UI.Output(string(data))
	return nil
}
