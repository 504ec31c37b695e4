package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cognicore/horn/pkg/horn/logic"
	"github.com/cognicore/horn/pkg/horn/syntax"
)

func newExportCmd(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the loaded knowledge base as a program",
		Long: `Write every fact and rule of the loaded knowledge base in the text syntax.
Clauses of one predicate keep their order. Useful for snapshotting facts
imported from SQLite.

Example:
  horn export -c horn.yaml -o snapshot.horn`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := buildSession(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			defer s.close()

			var out io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			var clauses []logic.Sentence
			for _, verb := range s.kb.Predicates() {
				for _, f := range s.kb.Facts(verb) {
					clauses = append(clauses, f)
				}
				for _, r := range s.kb.Rules(verb) {
					clauses = append(clauses, r)
				}
			}
			if err := syntax.WriteProgram(out, clauses); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
