// Package bridge exposes the file façade to the embedded web front-end as
// named commands with string arguments.
package bridge

import (
	"context"
	"log/slog"
	"os"
	"sort"

	"github.com/google/uuid"

	"tfsettings/internal/domain"
	apperrors "tfsettings/internal/errors"
	"tfsettings/internal/logging"
)

// Handler runs one bridge command.
type Handler func(ctx context.Context, args map[string]string) (string, error)

// Dispatcher routes invocations to the façade. The command table is built in
// NewDispatcher and never modified afterwards.
type Dispatcher struct {
	facade   domain.FileFacade
	handlers map[string]Handler
	policy   FailurePolicy
	exit     func(code int)
	newID    func() string
	logger   *slog.Logger
}

// Option is a functional option for configuring the Dispatcher.
type Option func(*Dispatcher)

// WithFailurePolicy sets how read_fixed_config failures are handled.
func WithFailurePolicy(policy FailurePolicy) Option {
	return func(d *Dispatcher) {
		d.policy = policy
	}
}

// WithExitFunc replaces os.Exit for FailurePolicyExit.
func WithExitFunc(exit func(code int)) Option {
	return func(d *Dispatcher) {
		d.exit = exit
	}
}

// WithIDGenerator replaces the invocation ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(d *Dispatcher) {
		d.newID = newID
	}
}

// NewDispatcher creates a dispatcher serving the three façade commands.
func NewDispatcher(facade domain.FileFacade, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		facade: facade,
		policy: FailurePolicyReturn,
		exit:   os.Exit,
		newID:  uuid.NewString,
		logger: logger,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.handlers = map[string]Handler{
		domain.CommandReadFile:   d.readFile,
		domain.CommandWriteFile:  d.writeFile,
		domain.CommandReadConfig: d.readConfig,
	}
	return d
}

// Commands returns the registered command names in sorted order.
func (d *Dispatcher) Commands() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs a single invocation and converts its outcome into a Result.
func (d *Dispatcher) Invoke(ctx context.Context, inv domain.Invocation) domain.Result {
	if inv.ID == "" {
		inv.ID = d.newID()
	}
	logger := logging.WithInvocation(d.logger, inv.ID, inv.Command)

	handler, ok := d.handlers[inv.Command]
	if !ok {
		err := apperrors.NewCommandError(inv.Command)
		logger.WarnContext(ctx, "Rejected invocation", "error", err)
		return failure(inv.ID, err)
	}

	value, err := handler(ctx, inv.Args)
	if err != nil {
		logger.InfoContext(ctx, "Invocation failed", "error", err)
		return failure(inv.ID, err)
	}

	logger.DebugContext(ctx, "Invocation succeeded", "bytes", len(value))
	return domain.Result{ID: inv.ID, OK: true, Value: value}
}

func (d *Dispatcher) readFile(ctx context.Context, args map[string]string) (string, error) {
	path, err := requireArg(args, domain.ArgumentPath)
	if err != nil {
		return "", err
	}
	return d.facade.ReadFileToString(ctx, path)
}

func (d *Dispatcher) writeFile(ctx context.Context, args map[string]string) (string, error) {
	path, err := requireArg(args, domain.ArgumentPath)
	if err != nil {
		return "", err
	}
	contents, err := requireArg(args, domain.ArgumentContents)
	if err != nil {
		return "", err
	}
	return "", d.facade.WriteStringToFile(ctx, path, contents)
}

func (d *Dispatcher) readConfig(ctx context.Context, _ map[string]string) (string, error) {
	contents, err := d.facade.ReadFixedConfig(ctx)
	if err != nil && d.policy == FailurePolicyExit {
		d.logger.ErrorContext(ctx, "Configuration unreadable, terminating", "error", err)
		d.exit(FailFastExitCode)
	}
	return contents, err
}

// requireArg checks that name was passed. Empty values are forwarded to the
// filesystem as they are.
func requireArg(args map[string]string, name string) (string, error) {
	value, ok := args[name]
	if !ok {
		return "", apperrors.NewValidationError(name, "argument is required")
	}
	return value, nil
}

func failure(id string, err error) domain.Result {
	return domain.Result{ID: id, OK: false, Error: err.Error()}
}
