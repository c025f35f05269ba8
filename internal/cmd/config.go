package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tfsettings/internal/app"
	"tfsettings/internal/domain"
)

func newConfigCommand(o *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the TouchFree configuration file",
		Long: `Read the TouchFree configuration file from the resolved configuration
directory and print it. With --fail-fast the process exits when the file cannot
be read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfig(cmd, o)
		},
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the resolved configuration file path",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			warnOnConfigFallback(o.application)
			o.application.UI.Output(o.application.Locator.ConfigPath() + "\n")
		},
	})

	return configCmd
}

// runConfig goes through the dispatcher so the failure policy applies exactly
// as it does for the web view.
func runConfig(cmd *cobra.Command, o *rootOptions) error {
	a := o.application
	warnOnConfigFallback(a)
	result := a.Dispatcher.Invoke(cmd.Context(), domain.Invocation{Command: domain.CommandReadConfig})
	if !result.OK {
		return errors.New(result.Error)
	}
	a.UI.Output(result.Value)
	return nil
}

// warnOnConfigFallback tells the user when the configured directory was
// ignored because it does not exist.
func warnOnConfigFallback(a *app.App) {
	override := a.Config.Settings.ConfigDir
	if override == "" {
		return
	}
	if dir := a.Locator.ConfigDirectory(); dir != override {
		a.UI.Warning(fmt.Sprintf("Configuration directory %s does not exist, using %s", override, dir))
	}
}
