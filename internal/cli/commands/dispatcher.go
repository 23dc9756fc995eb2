package commands

import (
	"CaseTrack/internal/session"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Dispatch is the single entry point to execute console commands.
// It prints help and usage messages and returns a process exit code.
func Dispatch(ctx context.Context, env *Env, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return 2
	}

	name := strings.ToLower(args[0])
	if name == "help" || name == "--help" || name == "-h" {
		if len(args) == 1 {
			fmt.Fprint(Out, FormatGlobalUsage())
			return 0
		}
		if c, ok := Get(args[1]); ok {
			fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
			return 0
		}
		fmt.Fprintf(Out, "Unknown command: %s\n\n", args[1])
		fmt.Fprint(Out, FormatGlobalUsage())
		return 2
	}

	c, ok := Get(name)
	if !ok {
		fmt.Fprintf(Out, "Unknown command: %s\n\n", name)
		fmt.Fprint(Out, FormatGlobalUsage())
		return 2
	}

	run := func() error { return c.Run(ctx, env, args[1:]) }
	var err error
	if c.RequiresAuth() {
		err = env.Guard.Gate(run)
	} else {
		err = run()
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrQuit):
		return 0
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return 2
	case errors.Is(err, session.ErrLoginRequired):
		fmt.Fprintln(Out, "Login required: use `login <email> <password>`")
		return 1
	default:
		fmt.Fprintf(Out, "%s error: %v\n", name, err)
		return 1
	}
}

// Loop читает команды построчно до quit или конца ввода.
func Loop(ctx context.Context, env *Env, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(Out, "casetrack> ")
		if !sc.Scan() {
			fmt.Fprintln(Out)
			return sc.Err()
		}
		args, err := SplitLine(sc.Text())
		if err != nil {
			fmt.Fprintf(Out, "parse error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if strings.EqualFold(args[0], "quit") || strings.EqualFold(args[0], "exit") {
			return nil
		}
		Dispatch(ctx, env, args)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// SplitLine разбивает строку на аргументы с учётом двойных и одинарных кавычек.
func SplitLine(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		quote   rune
		inToken bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			if inToken {
				args = append(args, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, errors.New("unterminated quote")
	}
	if inToken {
		args = append(args, cur.String())
	}
	return args, nil
}
