package commands

import (
	"CaseTrack/internal/model"
	"context"
	"errors"
	"fmt"
)

func init() {
	RegisterCmd(cmd{
		name: "inbox", usage: "inbox", desc: "List contact submissions", auth: true,
		run: func(ctx context.Context, env *Env, _ []string) error {
			if err := env.Inbox.Refresh(ctx); err != nil {
				fmt.Fprintln(Out, env.Inbox.Banner())
				return nil
			}
			printSubmissions(env.Inbox.Submissions(), env.Inbox.UnreadCount())
			return nil
		},
	})
	RegisterCmd(cmd{
		name: "read", usage: "read <id>", desc: "Mark a submission as read", auth: true,
		run: func(ctx context.Context, env *Env, args []string) error {
			if len(args) != 1 {
				return ErrUsage
			}
			ensureSubmissions(ctx, env)
			if err := env.Inbox.MarkRead(ctx, args[0]); err != nil {
				if msg := env.Inbox.InlineError(); msg != "" {
					return errors.New(msg)
				}
				return err
			}
			return nil
		},
	})
	RegisterCmd(cmd{
		name: "delete-submission", usage: "delete-submission <id>", desc: "Ask to delete a submission", auth: true,
		run: func(ctx context.Context, env *Env, args []string) error {
			if len(args) != 1 {
				return ErrUsage
			}
			ensureSubmissions(ctx, env)
			env.Board.CancelDelete()
			s, err := env.Inbox.RequestDelete(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(Out, "Delete submission from %s (%s)? Type `confirm` or `abort`.\n", s.Name, s.Subject)
			return nil
		},
	})
}

func ensureSubmissions(ctx context.Context, env *Env) {
	if len(env.Inbox.Submissions()) == 0 {
		_ = env.Inbox.Refresh(ctx)
	}
}

func printSubmissions(list []model.ContactSubmission, unread int) {
	fmt.Fprintf(Out, "%d submissions, %d unread\n", len(list), unread)
	for _, s := range list {
		mark := "*"
		if s.IsRead {
			mark = " "
		}
		phone := ""
		if s.Phone != nil {
			phone = " " + *s.Phone
		}
		fmt.Fprintf(Out, "%s %s  %s  %s <%s>%s\n    %s\n    %s\n",
			mark, s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"), s.Name, s.Email, phone, s.Subject, s.Message)
	}
}
