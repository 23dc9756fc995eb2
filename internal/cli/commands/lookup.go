package commands

import (
	"CaseTrack/internal/format"
	"CaseTrack/internal/lookup"
	"CaseTrack/internal/model"
	"CaseTrack/internal/money"
	"context"
	"errors"
	"fmt"
	"strings"
)

func init() {
	RegisterCmd(cmd{
		name: "lookup", usage: "lookup <case-number>", desc: "Public case status lookup",
		run: func(ctx context.Context, env *Env, args []string) error {
			if len(args) < 1 {
				return ErrUsage
			}
			c, err := env.Lookup.FindByCaseNumber(ctx, caseNumberArg(args))
			if err != nil {
				// для посетителя любая ошибка выглядит как отсутствие дела
				if !errors.Is(err, lookup.ErrNotFound) {
					fmt.Fprintln(Out, "Lookup failed, please try again later.")
				}
				fmt.Fprintln(Out, "Case Not Found")
				return nil
			}
			printCase(c)
			return nil
		},
	})
}

func printCase(c *model.Case) {
	fmt.Fprintf(Out, "Case:            %s\n", c.CaseNumber)
	fmt.Fprintf(Out, "Status:          %s\n", c.Status)
	fmt.Fprintf(Out, "Name:            %s\n", c.FullName)
	fmt.Fprintf(Out, "ID number:       %s\n", c.IDNumber)
	fmt.Fprintf(Out, "Email:           %s\n", c.Email)
	fmt.Fprintf(Out, "Phone:           %s\n", c.PhoneNumber)
	fmt.Fprintf(Out, "Date of birth:   %s\n", format.Date(c.DateOfBirth))
	fmt.Fprintf(Out, "Country:         %s\n", c.Country)
	fmt.Fprintf(Out, "Retrieved:       %s\n", money.FormatUSD(c.TotalRetrievedAmount))
	fmt.Fprintf(Out, "Payment needed:  %s\n", money.FormatUSD(c.PaymentRequired))
	fmt.Fprintf(Out, "Transaction ID:  %s\n", format.OrNA(c.TransactionID))
	fmt.Fprintf(Out, "Platform:        %s\n", format.OrNA(c.Platform))
	if c.HasAttachment() {
		fmt.Fprintf(Out, "Document:        %s (%s)\n", format.OrNA(c.PDFFileName), *c.PDFFileURL)
	}
	fmt.Fprintf(Out, "Created:         %s\n", format.Time(&c.CreatedAt))
}

// caseNumberArg: один аргумент (в том числе в кавычках) берётся как есть,
// несколько склеиваются через пробел.
func caseNumberArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return strings.Join(args, " ")
}
