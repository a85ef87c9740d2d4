// Command minilisp is the CLI entry point for the mini-lisp interpreter.
//
// Usage:
//
//	minilisp tokens <file> [--json]   Print tokens of every line
//	minilisp parse  <file>            Print expression trees as JSON
//	minilisp run    <file>...         Run source files line by line
//	minilisp run -e <expr>...         Run arguments as source lines
//	minilisp repl                     Start interactive REPL
package main

import (
	"fmt"
	"log/slog"
	"mini-lisp/internal/ast"
	"mini-lisp/internal/driver"
	"mini-lisp/internal/lexer"
	"mini-lisp/internal/parser"
	"mini-lisp/internal/runtime"
	"mini-lisp/internal/token"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// sessionFlags are shared by run and repl.
type sessionFlags struct {
	strict   bool
	maxDepth int
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.strict, "strict", false,
		"Fail on unbound symbols instead of returning them as symbols")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", runtime.DefaultMaxDepth,
		"Maximum nesting depth for parsing and evaluation (0 disables the limit)")
}

func (f *sessionFlags) options() []driver.Option {
	opts := []driver.Option{driver.WithMaxDepth(f.maxDepth)}
	if f.strict {
		opts = append(opts, driver.WithStrictSymbols())
	}
	return opts
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "minilisp",
		Short:         "A small Lisp interpreter",
		Long:          `Tokenize, parse and evaluate mini-lisp source, one expression per line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newTokensCmd(), newParseCmd(), newRunCmd(), newReplCmd())
	return root
}

// ---- tokens command ----

func newTokensCmd() *cobra.Command {
	var jsonMode bool
	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Tokenize a file and print its tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readLines(args[0])
			if err != nil {
				return err
			}
			var tokens []token.Token
			for i, line := range lines {
				for _, tok := range lexer.New(line, lexer.WithLine(i+1)).Tokenize() {
					if tok.Kind != token.EOF {
						tokens = append(tokens, tok)
					}
				}
			}
			if jsonMode {
				return printTokensJSON(cmd.OutOrStdout(), tokens)
			}
			printTokensText(cmd.OutOrStdout(), tokens)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonMode, "json", false, "Print tokens as JSON")
	return cmd
}

// ---- parse command ----

func newParseCmd() *cobra.Command {
	var maxDepth int
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a file and print its expression trees as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readLines(args[0])
			if err != nil {
				return err
			}

			exprs := []interface{}{}
			var errs []error
			for i, line := range lines {
				if driver.IsBlank(line) {
					continue
				}
				tokens := lexer.New(line, lexer.WithLine(i+1)).Tokenize()
				expr, err := parser.New(tokens, parser.WithMaxDepth(maxDepth)).Parse()
				if err != nil {
					errs = append(errs, err)
					continue
				}
				exprs = append(exprs, ast.NodeToMap(expr))
			}

			output := map[string]interface{}{
				"exprs":       exprs,
				"diagnostics": diagsToSlice(errs),
			}
			if err := printJSON(cmd.OutOrStdout(), output); err != nil {
				return err
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d line(s) failed to parse", len(errs))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxDepth, "max-depth", parser.DefaultMaxDepth,
		"Maximum nesting depth (0 disables the limit)")
	return cmd
}

// ---- run command ----

func newRunCmd() *cobra.Command {
	var (
		flags      sessionFlags
		expression bool
		debug      bool
	)
	cmd := &cobra.Command{
		Use:   "run <file>...",
		Short: "Run source files line by line",
		Long: `Evaluate every line of the given files in one session, printing each
result. A failing line is reported and the run continues; the exit status
is 1 when any line failed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := append(flags.options(),
				driver.WithOutput(cmd.OutOrStdout()),
				driver.WithErrorOutput(cmd.ErrOrStderr()))
			if debug {
				handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})
				opts = append(opts, driver.WithLogger(slog.New(handler)))
			}
			runner := driver.New(opts...)

			failures := 0
			if expression {
				for _, line := range args {
					if !runner.RunLine(line) {
						failures++
					}
				}
			} else {
				for _, path := range args {
					n, err := runFile(runner, path)
					if err != nil {
						return err
					}
					failures += n
				}
			}
			if failures > 0 {
				return fmt.Errorf("%d line(s) failed", failures)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVarP(&expression, "expr", "e", false,
		"Interpret arguments as source lines")
	cmd.Flags().BoolVar(&debug, "debug", false,
		"Log a debug record for every evaluated line to stderr")
	return cmd
}

func runFile(runner *driver.Runner, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("cannot read file %s: %w", path, err)
	}
	defer f.Close()

	failures, err := runner.RunFile(f)
	if err != nil {
		return failures, fmt.Errorf("%s: %w", path, err)
	}
	return failures, nil
}

// readLines returns the lines of a source file without their terminators.
func readLines(path string) ([]string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file %s: %w", path, err)
	}
	text := strings.TrimSuffix(strings.ReplaceAll(string(source), "\r\n", "\n"), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}
