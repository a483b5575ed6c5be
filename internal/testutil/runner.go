package testutil

import (
	"context"
	"sync"

	"github.com/mrz1836/batuta/internal/tool"
)

// FakeRunner is a tool.Runner test double. Each call is recorded, then
// dispatched to RunFunc; tests typically switch on the invocation's
// executable name to script per-tool behavior.
type FakeRunner struct {
	mu sync.Mutex

	// RunFunc produces the result for each invocation. When nil, every
	// invocation succeeds with an empty Result.
	RunFunc func(ctx context.Context, inv tool.Invocation) (tool.Result, error)

	calls []tool.Invocation
}

// Run implements tool.Runner.
func (f *FakeRunner) Run(ctx context.Context, inv tool.Invocation) (tool.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, inv)
	f.mu.Unlock()

	if f.RunFunc == nil {
		return tool.Result{Args: inv.Args}, nil
	}
	return f.RunFunc(ctx, inv)
}

// Calls returns a copy of every invocation recorded so far.
func (f *FakeRunner) Calls() []tool.Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]tool.Invocation, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many invocations have been recorded.
func (f *FakeRunner) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// CommandsRun returns the executable name of each recorded invocation, in order.
func (f *FakeRunner) CommandsRun() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.calls))
	for _, call := range f.calls {
		if len(call.Args) > 0 {
			names = append(names, call.Args[0])
		}
	}
	return names
}

// Ensure FakeRunner implements tool.Runner.
var _ tool.Runner = (*FakeRunner)(nil)
