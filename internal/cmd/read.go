package cmd

import (
	"github.com/spf13/cobra"
)

func newReadCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "read PATH",
		Short: "Print a text file",
		Long: `Read the file at PATH and print its contents unchanged to stdout.

Examples:
  tfsettings read /tmp/a.txt
  tfsettings read ./TouchFreeConfig.json > backup.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(cmd, o, args[0])
		},
	}
}

func runRead(cmd *cobra.Command, o *rootOptions, path string) error {
	a := o.application
	contents, err := a.Facade.ReadFileToString(cmd.Context(), path)
	if err != nil {
		return err
	}
	a.UI.Output(contents)
	return nil
}
