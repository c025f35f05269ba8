package bridge_test

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tfsettings/internal/adapters/filesystem"
	"tfsettings/internal/bridge"
	"tfsettings/internal/domain"
	"tfsettings/internal/logging"
	"tfsettings/internal/services/files"
	"tfsettings/internal/testutil"
)

const testConfigPath = "/cfg/TouchFreeConfig.json"

func newDispatcher(t *testing.T, opts ...bridge.Option) (*bridge.Dispatcher, *filesystem.Adapter) {
	t.Helper()
	facade, fs := testutil.MemoryFacade(testConfigPath)
	return bridge.NewDispatcher(facade, testutil.Logger(), opts...), fs
}

func TestDispatcher_Commands(t *testing.T) {
	dispatcher, _ := newDispatcher(t)

	assert.Equal(t, []string{
		domain.CommandReadFile,
		domain.CommandReadConfig,
		domain.CommandWriteFile,
	}, dispatcher.Commands())
}

func TestDispatcher_WriteThenRead(t *testing.T) {
	dispatcher, _ := newDispatcher(t)
	ctx := context.Background()

	written := dispatcher.Invoke(ctx, domain.Invocation{
		ID:      "w-1",
		Command: domain.CommandWriteFile,
		Args:    map[string]string{"path": "/tmp/a.txt", "contents": "hello"},
	})
	require.True(t, written.OK, written.Error)
	assert.Equal(t, "w-1", written.ID)
	assert.Empty(t, written.Value)

	read := dispatcher.Invoke(ctx, domain.Invocation{
		ID:      "r-1",
		Command: domain.CommandReadFile,
		Args:    map[string]string{"path": "/tmp/a.txt"},
	})
	require.True(t, read.OK, read.Error)
	assert.Equal(t, "hello", read.Value)
}

func TestDispatcher_WriteEmptyContents(t *testing.T) {
	dispatcher, fs := newDispatcher(t)

	result := dispatcher.Invoke(context.Background(), domain.Invocation{
		Command: domain.CommandWriteFile,
		Args:    map[string]string{"path": "/tmp/empty.txt", "contents": ""},
	})

	require.True(t, result.OK, result.Error)
	data, err := fs.ReadFile("/tmp/empty.txt")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestDispatcher_ErrorResults(t *testing.T) {
	tests := []struct {
		name    string
		inv     domain.Invocation
		wantErr string
	}{
		{
			name:    "unknown command",
			inv:     domain.Invocation{Command: "delete_file", Args: map[string]string{"path": "/tmp/a"}},
			wantErr: "unknown command 'delete_file'",
		},
		{
			name:    "read without path",
			inv:     domain.Invocation{Command: domain.CommandReadFile},
			wantErr: "validation error in field 'path': argument is required",
		},
		{
			name:    "write without contents",
			inv:     domain.Invocation{Command: domain.CommandWriteFile, Args: map[string]string{"path": "/tmp/a"}},
			wantErr: "validation error in field 'contents': argument is required",
		},
		{
			name:    "read missing file",
			inv:     domain.Invocation{Command: domain.CommandReadFile, Args: map[string]string{"path": "/tmp/does-not-exist.txt"}},
			wantErr: "read /tmp/does-not-exist.txt:",
		},
		{
			name:    "missing configuration",
			inv:     domain.Invocation{Command: domain.CommandReadConfig},
			wantErr: "configuration missing at '/cfg/TouchFreeConfig.json'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher, _ := newDispatcher(t)

			result := dispatcher.Invoke(context.Background(), tt.inv)

			assert.False(t, result.OK)
			assert.Empty(t, result.Value)
			assert.Contains(t, result.Error, tt.wantErr)
		})
	}
}

func TestDispatcher_GeneratesInvocationID(t *testing.T) {
	dispatcher, _ := newDispatcher(t, bridge.WithIDGenerator(func() string { return "generated" }))

	result := dispatcher.Invoke(context.Background(), domain.Invocation{Command: domain.CommandReadConfig})

	assert.Equal(t, "generated", result.ID)
}

func TestDispatcher_DefaultIDsAreUnique(t *testing.T) {
	dispatcher, _ := newDispatcher(t)
	ctx := context.Background()

	first := dispatcher.Invoke(ctx, domain.Invocation{Command: domain.CommandReadConfig})
	second := dispatcher.Invoke(ctx, domain.Invocation{Command: domain.CommandReadConfig})

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestDispatcher_ReadConfig(t *testing.T) {
	dispatcher, fs := newDispatcher(t, bridge.WithFailurePolicy(bridge.FailurePolicyExit),
		bridge.WithExitFunc(func(int) { t.Fatal("exit must not be called when the configuration is readable") }))
	require.NoError(t, fs.WriteFile(testConfigPath, []byte(`{"hoverAndHold":false}`), 0o644))

	result := dispatcher.Invoke(context.Background(), domain.Invocation{Command: domain.CommandReadConfig})

	require.True(t, result.OK, result.Error)
	assert.JSONEq(t, `{"hoverAndHold":false}`, result.Value)
}

func TestDispatcher_ReturnPolicyDoesNotExit(t *testing.T) {
	exited := false
	dispatcher, _ := newDispatcher(t, bridge.WithExitFunc(func(int) { exited = true }))

	result := dispatcher.Invoke(context.Background(), domain.Invocation{Command: domain.CommandReadConfig})

	assert.False(t, result.OK)
	assert.False(t, exited)
}

func TestDispatcher_ExitPolicyCallsExit(t *testing.T) {
	var codes []int
	dispatcher, _ := newDispatcher(t,
		bridge.WithFailurePolicy(bridge.FailurePolicyExit),
		bridge.WithExitFunc(func(code int) { codes = append(codes, code) }))

	dispatcher.Invoke(context.Background(), domain.Invocation{Command: domain.CommandReadConfig})

	assert.Equal(t, []int{bridge.FailFastExitCode}, codes)
}

func TestDispatcher_ExitPolicyOnlyAffectsFixedConfig(t *testing.T) {
	dispatcher, _ := newDispatcher(t,
		bridge.WithFailurePolicy(bridge.FailurePolicyExit),
		bridge.WithExitFunc(func(int) { t.Fatal("read_file_to_string must never exit") }))

	result := dispatcher.Invoke(context.Background(), domain.Invocation{
		Command: domain.CommandReadFile,
		Args:    map[string]string{"path": "/nope.txt"},
	})

	assert.False(t, result.OK)
}

// TestDispatcher_FailFastTerminatesProcess runs itself in a child process so
// the real os.Exit can be observed.
func TestDispatcher_FailFastTerminatesProcess(t *testing.T) {
	if os.Getenv("TFSETTINGS_FAIL_FAST_CHILD") == "1" {
		logger := logging.NewLogger(logging.Config{Level: logging.LevelError, Format: "text", Output: os.Stderr})
		configPath := filepath.Join(os.Getenv("TFSETTINGS_FAIL_FAST_DIR"), "TouchFreeConfig.json")
		facade := files.NewFacade(filesystem.New(), configPath, logger.Logger)
		dispatcher := bridge.NewDispatcher(facade, logger.Logger, bridge.WithFailurePolicy(bridge.FailurePolicyExit))

		dispatcher.Invoke(context.Background(), domain.Invocation{Command: domain.CommandReadConfig})
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestDispatcher_FailFastTerminatesProcess$")
	cmd.Env = append(os.Environ(),
		"TFSETTINGS_FAIL_FAST_CHILD=1",
		"TFSETTINGS_FAIL_FAST_DIR="+t.TempDir())
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr, "child process must terminate with a failure status")
	assert.Equal(t, bridge.FailFastExitCode, exitErr.ExitCode())
	assert.True(t, strings.Contains(stderr.String(), "Configuration unreadable"), stderr.String())
}

func TestPolicyFor(t *testing.T) {
	assert.Equal(t, bridge.FailurePolicyExit, bridge.PolicyFor(true))
	assert.Equal(t, bridge.FailurePolicyReturn, bridge.PolicyFor(false))
	assert.Equal(t, "exit", bridge.FailurePolicyExit.String())
	assert.Equal(t, "return", bridge.FailurePolicyReturn.String())
}
