package commands

import (
	"context"
	"errors"
	"fmt"
)

var errInvalidCredentials = errors.New("invalid login credentials")

func init() {
	RegisterCmd(cmd{
		name: "login", usage: "login <email> <password>", desc: "Sign in as administrator",
		run: func(ctx context.Context, env *Env, args []string) error {
			if len(args) < 2 {
				return ErrUsage
			}
			if !env.Guard.Login(ctx, args[0], args[1]) {
				return errInvalidCredentials
			}
			fmt.Fprintf(Out, "Logged in as %s\n", env.Guard.Session().Email)
			return nil
		},
	})
	RegisterCmd(cmd{
		name: "logout", usage: "logout", desc: "Sign out", auth: true,
		run: func(ctx context.Context, env *Env, _ []string) error {
			env.Guard.Logout(ctx)
			fmt.Fprintln(Out, "Logged out")
			return nil
		},
	})
	RegisterCmd(cmd{
		name: "status", usage: "status", desc: "Show session state",
		run: func(_ context.Context, env *Env, _ []string) error {
			fmt.Fprintf(Out, "Session: %s\n", env.Guard.State())
			if s := env.Guard.Session(); s != nil {
				fmt.Fprintf(Out, "Email: %s\nExpires: %s\n", s.Email, s.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	})
	RegisterCmd(cmd{
		name: "quit", usage: "quit", desc: "Leave the console",
		run: func(context.Context, *Env, []string) error { return ErrQuit },
	})
}
