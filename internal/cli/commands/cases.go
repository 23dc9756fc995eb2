package commands

import (
	"CaseTrack/internal/console"
	"CaseTrack/internal/model"
	"CaseTrack/internal/money"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
)

func init() {
	RegisterCmd(cmd{
		name: "cases", usage: "cases [query]", desc: "Reload and list cases", auth: true,
		run: func(ctx context.Context, env *Env, args []string) error {
			if err := env.Board.Refresh(ctx); err != nil {
				fmt.Fprintln(Out, env.Board.Banner())
				return nil
			}
			printCases(env.Board.Search(strings.Join(args, " ")))
			return nil
		},
	})
	RegisterCmd(cmd{
		name: "search", usage: "search <query>", desc: "Filter loaded cases", auth: true,
		run: func(_ context.Context, env *Env, args []string) error {
			if len(args) == 0 {
				return ErrUsage
			}
			printCases(env.Board.Search(strings.Join(args, " ")))
			return nil
		},
	})
	RegisterCmd(cmd{
		name: "new", usage: "new", desc: "Open an empty case form", auth: true,
		run: func(_ context.Context, env *Env, _ []string) error {
			env.Board.NewForm()
			printForm(env.Board)
			return nil
		},
	})
	RegisterCmd(cmd{
		name: "edit", usage: "edit <case-number>", desc: "Open a case in the form", auth: true,
		run: func(ctx context.Context, env *Env, args []string) error {
			if len(args) != 1 {
				return ErrUsage
			}
			ensureCases(ctx, env)
			if err := env.Board.EditForm(args[0]); err != nil {
				return err
			}
			printForm(env.Board)
			return nil
		},
	})
	RegisterCmd(cmd{
		name: "set", usage: "set <field> <value>", desc: "Change a form field", auth: true,
		run: func(_ context.Context, env *Env, args []string) error {
			if len(args) < 1 {
				return ErrUsage
			}
			return env.Board.Set(args[0], strings.Join(args[1:], " "))
		},
	})
	RegisterCmd(cmd{
		name: "form", usage: "form", desc: "Show the open form", auth: true,
		run: func(_ context.Context, env *Env, _ []string) error {
			if _, ok := env.Board.Form(); !ok {
				return console.ErrNoForm
			}
			printForm(env.Board)
			return nil
		},
	})
	RegisterCmd(cmd{
		name: "save", usage: "save", desc: "Create or update the case from the form", auth: true,
		run: func(ctx context.Context, env *Env, _ []string) error {
			f, _ := env.Board.Form()
			if err := env.Board.Save(ctx); err != nil {
				return boardError(env.Board, err)
			}
			if f.IsNew() {
				fmt.Fprintf(Out, "Case %s created\n", strings.TrimSpace(f.CaseNumber))
			} else {
				fmt.Fprintf(Out, "Case %s updated\n", strings.TrimSpace(f.CaseNumber))
			}
			return nil
		},
	})
	RegisterCmd(cmd{
		name: "cancel", usage: "cancel", desc: "Close the form without saving", auth: true,
		run: func(_ context.Context, env *Env, _ []string) error {
			env.Board.Cancel()
			return nil
		},
	})
	RegisterCmd(cmd{
		name: "delete", usage: "delete <case-number>", desc: "Ask to delete a case", auth: true,
		run: func(ctx context.Context, env *Env, args []string) error {
			if len(args) != 1 {
				return ErrUsage
			}
			ensureCases(ctx, env)
			env.Inbox.CancelDelete()
			c, err := env.Board.RequestDelete(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(Out, "Delete case %s (%s)? Type `confirm` or `abort`.\n", c.CaseNumber, c.FullName)
			return nil
		},
	})
	RegisterCmd(cmd{
		name: "confirm", usage: "confirm", desc: "Confirm the pending delete", auth: true,
		run: func(ctx context.Context, env *Env, _ []string) error {
			if c, ok := env.Board.PendingDelete(); ok {
				if err := env.Board.ConfirmDelete(ctx); err != nil {
					return boardError(env.Board, err)
				}
				fmt.Fprintf(Out, "Case %s deleted\n", c.CaseNumber)
				return nil
			}
			if s, ok := env.Inbox.PendingDelete(); ok {
				if err := env.Inbox.ConfirmDelete(ctx); err != nil {
					if msg := env.Inbox.InlineError(); msg != "" {
						return errors.New(msg)
					}
					return err
				}
				fmt.Fprintf(Out, "Submission %s deleted\n", s.ID)
				return nil
			}
			return console.ErrNoPendingDelete
		},
	})
	RegisterCmd(cmd{
		name: "abort", usage: "abort", desc: "Cancel the pending delete", auth: true,
		run: func(_ context.Context, env *Env, _ []string) error {
			env.Board.CancelDelete()
			env.Inbox.CancelDelete()
			return nil
		},
	})
	RegisterCmd(cmd{
		name: "upload", usage: "upload <case-number> <file.pdf>", desc: "Attach a PDF to a case", auth: true,
		run: func(ctx context.Context, env *Env, args []string) error {
			if len(args) != 2 {
				return ErrUsage
			}
			ensureCases(ctx, env)
			c, ok := env.Board.Find(args[0])
			if !ok {
				return console.ErrUnknownCase
			}
			data, err := env.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			if err := env.Board.Upload(ctx, c.ID, filepath.Base(args[1]), data); err != nil {
				return boardError(env.Board, err)
			}
			fmt.Fprintf(Out, "PDF attached to case %s\n", c.CaseNumber)
			return nil
		},
	})
}

// ensureCases загружает список, если он ещё пуст (разовый запуск без интерактивного режима).
func ensureCases(ctx context.Context, env *Env) {
	if len(env.Board.Cases()) == 0 {
		_ = env.Board.Refresh(ctx)
	}
}

// boardError показывает ошибку сервера текстом из формы, локальные ошибки как есть.
func boardError(b *console.Board, err error) error {
	var verr *console.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr
	case errors.Is(err, console.ErrNoForm), errors.Is(err, console.ErrSaveInProgress),
		errors.Is(err, console.ErrNotPDF), errors.Is(err, console.ErrUploadInProgress),
		errors.Is(err, console.ErrClosed):
		return err
	}
	if msg := b.InlineError(); msg != "" {
		return errors.New(msg)
	}
	return err
}

func printCases(cases []model.Case) {
	if len(cases) == 0 {
		fmt.Fprintln(Out, "No cases")
		return
	}
	tw := tabwriter.NewWriter(Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CASE\tSTATUS\tNAME\tEMAIL\tPHONE\tRETRIEVED\tPDF")
	for _, c := range cases {
		pdf := "-"
		if c.HasAttachment() {
			pdf = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.CaseNumber, c.Status, c.FullName, c.Email, c.PhoneNumber, money.FormatUSD(c.TotalRetrievedAmount), pdf)
	}
	_ = tw.Flush()
}

func printForm(b *console.Board) {
	f, ok := b.Form()
	if !ok {
		return
	}
	title := "New case"
	if !f.IsNew() {
		title = "Edit case " + f.CaseNumber
	}
	fmt.Fprintln(Out, title)
	for _, name := range console.FormFields {
		v, _ := f.Get(name)
		fmt.Fprintf(Out, "  %-24s %s\n", name, v)
	}
	if msg := b.InlineError(); msg != "" {
		fmt.Fprintf(Out, "  ! %s\n", msg)
	}
}
