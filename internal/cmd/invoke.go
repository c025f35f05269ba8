package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tfsettings/internal/domain"
	apperrors "tfsettings/internal/errors"
)

type invokeOptions struct {
	remote string
	id     string
	asJSON bool
	list   bool
}

func newInvokeCommand(o *rootOptions) *cobra.Command {
	opts := &invokeOptions{}

	invokeCmd := &cobra.Command{
		Use:   "invoke COMMAND [key=value...]",
		Short: "Send one bridge invocation",
		Long: `Send a bridge invocation the way the settings web view does and print its value.

Without --remote the invocation is handled in-process. With --remote it is
posted to a bridge started by 'tfsettings serve'.

Commands: read_file_to_string (path), write_string_to_file (path, contents),
read_fixed_config. Use --list to print them.

Examples:
  tfsettings invoke read_fixed_config
  tfsettings invoke write_string_to_file path=/tmp/a.txt contents=hello
  tfsettings invoke read_file_to_string path=/tmp/a.txt --remote http://127.0.0.1:7780`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoke(cmd, o, opts, args)
		},
	}

	invokeCmd.Flags().StringVar(&opts.remote, "remote", "", "Base URL of a running bridge")
	invokeCmd.Flags().StringVar(&opts.id, "id", "", "Invocation ID (generated when empty)")
	invokeCmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the full result as JSON")
	invokeCmd.Flags().BoolVar(&opts.list, "list", false, "List the commands the bridge accepts")

	return invokeCmd
}

func runInvoke(cmd *cobra.Command, o *rootOptions, opts *invokeOptions, args []string) error {
	a := o.application

	if opts.list {
		for _, name := range a.Dispatcher.Commands() {
			a.UI.Output(name + "\n")
		}
		return nil
	}

	inv, err := parseInvocation(args)
	if err != nil {
		return err
	}
	inv.ID = opts.id

	var result domain.Result
	if opts.remote != "" {
		client := a.BridgeClients.Create(opts.remote)
		if !client.Healthy(cmd.Context()) {
			return fmt.Errorf("no bridge answering at %s", opts.remote)
		}
		result, err = client.Invoke(cmd.Context(), inv)
		if err != nil {
			return err
		}
	} else {
		result = a.Dispatcher.Invoke(cmd.Context(), inv)
	}

	if opts.asJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		a.UI.Output(string(data) + "\n")
	} else if result.OK {
		a.UI.Output(result.Value)
	}

	if !result.OK {
		return errors.New(result.Error)
	}
	return nil
}

// parseInvocation turns "COMMAND key=value..." into an invocation. Values may
// contain '=' and may be empty.
func parseInvocation(args []string) (domain.Invocation, error) {
	inv := domain.Invocation{Command: args[0]}
	if len(args) == 1 {
		return inv, nil
	}

	inv.Args = make(map[string]string, len(args)-1)
	for _, arg := range args[1:] {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return domain.Invocation{}, apperrors.NewValidationError("args", fmt.Sprintf("expected key=value, got '%s'", arg))
		}
		inv.Args[key] = value
	}
	return inv, nil
}
