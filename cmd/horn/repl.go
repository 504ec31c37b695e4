package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const replHelp = `Enter a query such as sibling(a, X). or one of:
  :tell <clause>.   add a fact or rule
  :load <file>      load a program file
  :predicates       list known predicates
  :help             show this help
Ctrl+D exits.`

func newReplCmd(flags *globalFlags) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive query loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := buildSession(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			defer s.close()

			if metricsAddr != "" {
				stop, err := s.serveMetrics(metricsAddr)
				if err != nil {
					return err
				}
				defer stop()
			}
			return s.repl(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9464")
	return cmd
}

func (s *session) repl(ctx context.Context, in io.Reader, out io.Writer) error {
	facts, rules := s.kb.Size()
	fmt.Fprintf(out, "horn: %d facts, %d rules loaded. Type :help for commands.\n", facts, rules)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "?- ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := s.command(ctx, out, line); err != nil {
			fmt.Fprintln(out, "error:", err)
		}
	}
	fmt.Fprintln(out)
	return scanner.Err()
}

func (s *session) command(ctx context.Context, out io.Writer, line string) error {
	if !strings.HasPrefix(line, ":") {
		return s.answer(ctx, out, line)
	}

	name, arg, _ := strings.Cut(line[1:], " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "tell":
		n, err := s.kb.Load(arg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "told %d clause(s).\n", n)
	case "load":
		src, err := os.ReadFile(arg)
		if err != nil {
			return err
		}
		n, err := s.kb.Load(string(src))
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
		fmt.Fprintf(out, "loaded %d clause(s) from %s.\n", n, arg)
	case "predicates":
		for _, verb := range s.kb.Predicates() {
			fmt.Fprintln(out, verb)
		}
	case "help":
		fmt.Fprintln(out, replHelp)
	default:
		return fmt.Errorf("unknown command :%s", name)
	}
	return nil
}

// serveMetrics exposes the session's registry until the returned func runs.
func (s *session) serveMetrics(addr string) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	s.log.Info("serving metrics", zap.String("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
