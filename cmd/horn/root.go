package main

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/horn/internal/logging"
	"github.com/cognicore/horn/pkg/horn"
	"github.com/cognicore/horn/pkg/horn/config"
	"github.com/cognicore/horn/pkg/horn/logic"
	"github.com/cognicore/horn/pkg/horn/metrics"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	programs   []string
	debug      bool
	limit      int
	maxDepth   int
}

const rootLongDesc = `horn answers queries against knowledge bases of facts and rules.

Programs use a Prolog-like syntax: facts like father(pap, a). and rules like
sibling(X, Y) :- father(Z, X), father(Z, Y), X \= Y. A YAML config file can
list programs and SQLite tables to import as facts.

Example:
  horn ask -p family.horn "sibling(X, Y)"
  horn ask -c horn.yaml -n 1 "ancestor(ann, D)"
  horn repl -p family.horn
  horn check -c horn.yaml
  horn export -c horn.yaml -o snapshot.horn`

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "horn",
		Short:         "Query knowledge bases of facts and rules",
		Long:          rootLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringSliceVarP(&flags.programs, "program", "p", nil, "Program file to load (repeatable)")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().IntVarP(&flags.limit, "limit", "n", 0, "Maximum answers per query (0 = all)")
	cmd.PersistentFlags().IntVar(&flags.maxDepth, "max-depth", 0, "Maximum rule nesting per proof (0 = config value or unbounded)")

	cmd.AddCommand(newAskCmd(flags))
	cmd.AddCommand(newReplCmd(flags))
	cmd.AddCommand(newCheckCmd(flags))
	cmd.AddCommand(newExportCmd(flags))
	return cmd
}

// session is a loaded KB plus the settings that shape its output.
type session struct {
	kb    *horn.KB
	limit int
	log   *zap.Logger
	reg   *prometheus.Registry
}

func (s *session) close() { _ = s.log.Sync() }

// buildSession loads every configured program and import.
func buildSession(ctx context.Context, cmd *cobra.Command, flags *globalFlags) (*session, error) {
	if flags.configPath == "" && len(flags.programs) == 0 {
		return nil, fmt.Errorf("nothing to load: pass --config or --program")
	}

	level := logging.Level(flags.debug)
	log := logging.NewAtLevel(level, cmd.ErrOrStderr())
	reg := prometheus.NewRegistry()

	loader := &config.Loader{
		ConfigPath:   flags.configPath,
		ProgramPaths: flags.programs,
		MaxDepth:     flags.maxDepth,
		Logger:       log,
		Metrics:      metrics.New(reg),
	}
	comp, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	if comp.Config.Debug {
		level.SetLevel(zap.DebugLevel)
	}

	limit := comp.Config.Limit
	if cmd.Flags().Changed("limit") {
		limit = flags.limit
	}
	return &session{kb: comp.KB, limit: limit, log: log, reg: reg}, nil
}

// answer runs one textual query and prints its answers, one per line, or
// "false." when there are none.
func (s *session) answer(ctx context.Context, out io.Writer, src string) error {
	goal, err := s.kb.ParseQuery(src)
	if err != nil {
		return err
	}
	return s.print(ctx, out, goal)
}

func (s *session) print(ctx context.Context, out io.Writer, goal logic.Sentence) error {
	n := 0
	for b, err := range s.kb.Ask(ctx, goal) {
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s.\n", b)
		n++
		if s.limit > 0 && n >= s.limit {
			break
		}
	}
	if n == 0 {
		fmt.Fprintln(out, "false.")
	}
	return nil
}
