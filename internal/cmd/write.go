package cmd

import (
	"github.com/spf13/cobra"
)

func newWriteCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "write PATH [CONTENTS]",
		Short: "Create or replace a text file",
		Long: `Write CONTENTS to the file at PATH, replacing anything already there.
When CONTENTS is omitted it is read from stdin until end of input.

Examples:
  tfsettings write /tmp/a.txt hello
  tfsettings write ./TouchFreeConfig.json < edited.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(cmd, o, args)
		},
	}
}

func runWrite(cmd *cobra.Command, o *rootOptions, args []string) error {
	a := o.application
	path := args[0]

	var contents string
	if len(args) == 2 {
		contents = args[1]
	} else {
		var err error
		contents, err = a.Contents.ReadContents(cmd.Context(), "Enter contents, then press Ctrl-D:")
		if err != nil {
			return err
		}
	}

	if err := a.Facade.WriteStringToFile(cmd.Context(), path, contents); err != nil {
		return err
	}

	a.UI.Successf("Wrote %d bytes to %s", len(contents), path)
	return nil
}
