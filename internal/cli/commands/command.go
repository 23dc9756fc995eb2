package commands

import (
	"CaseTrack/internal/config"
	"CaseTrack/internal/console"
	"CaseTrack/internal/lookup"
	"CaseTrack/internal/session"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// ErrQuit завершает интерактивный цикл.
var ErrQuit = errors.New("quit")

// Env — зависимости, общие для всех команд консоли.
type Env struct {
	Config *config.Config
	Guard  *session.Guard
	Board  *console.Board
	Inbox  *console.Inbox
	Lookup *lookup.Service
	// ReadFile читает загружаемый PDF; в тестах подменяется.
	ReadFile func(name string) ([]byte, error)
}

// Command represents a console command.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "login".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "login <email> <password>".
	Usage() string
	// RequiresAuth: команда доступна только после входа.
	RequiresAuth() bool
	// Run executes the command with provided args (without the command name).
	Run(ctx context.Context, env *Env, args []string) error
}

// registry holds available commands by name.
var registry = map[string]Command{}

// Out — общий writer для вывода CLI. По умолчанию os.Stdout, но в тестах может переназначаться.
var Out io.Writer = os.Stdout

// RegisterCmd adds a command to the registry. Should be called from init() of each command.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

// Get returns a command by name.
func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// FormatGlobalUsage builds a help text for all commands.
func FormatGlobalUsage() string {
	lines := []string{
		"CaseTrack console",
		"",
		"Usage:",
		"  casetrack [--base-url <host:port>] [command [args]]",
		"  without a command an interactive prompt is started",
		"",
		"Commands (* requires login):",
	}
	for _, c := range List() {
		mark := " "
		if c.RequiresAuth() {
			mark = "*"
		}
		lines = append(lines, fmt.Sprintf(" %s %-34s %s", mark, c.Usage(), c.Description()))
	}
	return strings.Join(lines, "\n") + "\n"
}

// cmd — команда из замыкания; большинству команд отдельный тип не нужен.
type cmd struct {
	name, usage, desc string
	auth              bool
	run               func(ctx context.Context, env *Env, args []string) error
}

func (c cmd) Name() string        { return c.name }
func (c cmd) Description() string { return c.desc }
func (c cmd) Usage() string       { return c.usage }
func (c cmd) RequiresAuth() bool  { return c.auth }
func (c cmd) Run(ctx context.Context, env *Env, args []string) error {
	return c.run(ctx, env, args)
}
