package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCheckCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the knowledge base and list its predicates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := buildSession(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			defer s.close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PREDICATE\tFACTS\tRULES")
			for _, verb := range s.kb.Predicates() {
				fmt.Fprintf(w, "%s\t%d\t%d\n", verb, len(s.kb.Facts(verb)), len(s.kb.Rules(verb)))
			}
			facts, rules := s.kb.Size()
			fmt.Fprintf(w, "total\t%d\t%d\n", facts, rules)
			return w.Flush()
		},
	}
}
