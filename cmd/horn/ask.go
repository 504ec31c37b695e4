package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <query>",
		Short: "Answer one query",
		Long: `Answer one query and print each binding set on its own line.

Example:
  horn ask -p family.horn "sibling(a, Who)"
  horn ask -p arith.horn -n 1 "factorial(5, F)"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := buildSession(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			defer s.close()

			return s.answer(cmd.Context(), cmd.OutOrStdout(), strings.Join(args, " "))
		},
	}
}
