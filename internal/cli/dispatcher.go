package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Handler runs one command with the arguments left after its name.
type Handler func(ctx context.Context, env *Env, args []string) (interface{}, error)

type command struct {
	usage   string
	handler Handler
}

// Dispatcher maps "<group> <verb>" (or single-word) names to handlers.
type Dispatcher struct {
	commands map[string]command
	mu       sync.RWMutex
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{commands: make(map[string]command)}
}

func (d *Dispatcher) Register(name, usage string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands[name] = command{usage: usage, handler: handler}
}

// Execute resolves the longest registered name prefix of args and runs it.
func (d *Dispatcher) Execute(ctx context.Context, env *Env, args []string) (interface{}, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no command given\n%s", d.Usage())
	}

	d.mu.RLock()
	var (
		cmd  command
		ok   bool
		rest []string
	)
	if len(args) >= 2 {
		cmd, ok = d.commands[args[0]+" "+args[1]]
		rest = args[2:]
	}
	if !ok {
		cmd, ok = d.commands[args[0]]
		rest = args[1:]
	}
	d.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown command %q\n%s", strings.Join(args[:min(2, len(args))], " "), d.Usage())
	}
	return cmd.handler(ctx, env, rest)
}

// Usage lists every registered command.
func (d *Dispatcher) Usage() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.commands))
	for name := range d.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("commands:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-24s %s\n", name, d.commands[name].usage)
	}
	return b.String()
}
