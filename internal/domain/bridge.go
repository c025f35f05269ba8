package domain

import "context"

// Command names understood by the host bridge.
const (
	CommandReadFile   = "read_file_to_string"
	CommandWriteFile  = "write_string_to_file"
	CommandReadConfig = "read_fixed_config"
)

// Argument names used by the bridge commands.
const (
	ArgumentPath     = "path"
	ArgumentContents = "contents"
)

// Invocation is a single call from the front-end.
type Invocation struct {
	ID      string            `json:"id,omitempty"`
	Command string            `json:"cmd"`
	Args    map[string]string `json:"args,omitempty"`
}

// Result is what the front-end receives back. Error holds a human-readable
// message and is empty when OK is true.
type Result struct {
	ID    string `json:"id,omitempty"`
	OK    bool   `json:"ok"`
	Value string `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// Invoker dispatches invocations to the façade.
type Invoker interface {
	Invoke(ctx context.Context, inv Invocation) Result
}
