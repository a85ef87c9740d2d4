package main

import (
	"errors"
	"fmt"
	"io"
	"mini-lisp/internal/driver"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

// ---- ANSI colors ----

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

const (
	prompt     = colorGreen + "lisp> " + colorReset
	contPrompt = colorGray + "...   " + colorReset
)

// colorWriter wraps every write in an ANSI color.
type colorWriter struct {
	w     io.Writer
	color string
}

func (c colorWriter) Write(p []byte) (int, error) {
	if _, err := io.WriteString(c.w, c.color); err != nil {
		return 0, err
	}
	n, err := c.w.Write(p)
	if err != nil {
		return n, err
	}
	_, err = io.WriteString(c.w, colorReset)
	return n, err
}

// ---- repl command ----

func newReplCmd() *cobra.Command {
	var (
		flags       sessionFlags
		historyFile string
	)
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("history") {
				historyFile = defaultHistoryFile()
			}
			return repl(historyFile, flags.options())
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&historyFile, "history", "",
		"History file (default ~/.minilisp_history)")
	return cmd
}

func defaultHistoryFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".minilisp_history")
	}
	return ""
}

func repl(historyFile string, opts []driver.Option) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("readline init failed: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "%s%smini-lisp REPL%s %s(type 'exit', ':env' or Ctrl+D)%s\n\n",
		colorBold, colorCyan, colorReset, colorGray, colorReset)

	runner := driver.New(append(opts,
		driver.WithOutput(rl.Stdout()),
		driver.WithErrorOutput(colorWriter{w: rl.Stderr(), color: colorRed}))...)

	var acc driver.Accumulator

	for {
		if acc.Pending() {
			rl.SetPrompt(contPrompt)
		} else {
			rl.SetPrompt(prompt)
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if acc.Pending() {
					acc.Reset()
					continue
				}
				fmt.Fprintf(rl.Stdout(), "%s(use 'exit' or Ctrl+D to quit)%s\n", colorGray, colorReset)
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(rl.Stdout())
				return nil
			}
			return err
		}

		if !acc.Pending() {
			if driver.IsExit(line) {
				return nil
			}
			if driver.IsEnvCommand(line) {
				runner.WriteBindings(rl.Stdout())
				continue
			}
		}

		if source, ready := acc.Feed(line); ready {
			runner.RunLine(source)
		}
	}
}
