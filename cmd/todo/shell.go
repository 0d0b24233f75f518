package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abatilo/todo/internal/autosave"
)

const shellPrompt = "todo> "

var errUnterminatedQuote = errors.New("unterminated quote")

// shellCmd implements 'todo shell'.
func shellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively with periodic autosave",
		Long: `Run todo commands one per line in a single session.

Type "help" for the command list and "exit" or "quit" to leave. Changes are
saved after every command and, as a safety net, every autosave-interval.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := a.loadStore()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			saver := autosave.New(store, a.files.Save, a.cfg.AutosaveInterval.Duration, a.logger)
			saver.Start(ctx)

			err := a.repl(ctx)
			cancel()
			if serr := saver.Stop(); serr != nil && err == nil {
				err = serr
			}
			return err
		},
	}
}

// repl reads lines until exit or end of input, running each as a command.
func (a *app) repl(ctx context.Context) error {
	for {
		fmt.Fprint(a.out, shellPrompt)
		line, err := a.in.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			if quit := a.runLine(ctx, line); quit {
				return nil
			}
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(a.out)
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// runLine executes one shell line and reports whether the shell should end.
// Errors are printed and the session continues.
func (a *app) runLine(ctx context.Context, line string) bool {
	args, err := splitLine(line)
	if err != nil {
		a.print(a.formatter.FormatError(err))
		return false
	}
	switch args[0] {
	case "exit", "quit":
		return true
	}

	root := &cobra.Command{
		Short:         "Commands available in the shell",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	addCommands(root, a)
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	if err = root.ExecuteContext(ctx); err != nil {
		a.logger.Debug("shell command failed", zap.Strings("args", args), zap.Error(err))
		a.print(a.formatter.FormatError(err))
	}
	return false
}

// splitLine splits a shell line into words. Single and double quotes group
// words and a backslash escapes the next character outside single quotes.
func splitLine(line string) ([]string, error) {
	var (
		words   []string
		current strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if inWord {
				words = append(words, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 || escaped {
		return nil, errUnterminatedQuote
	}
	if inWord {
		words = append(words, current.String())
	}
	return words, nil
}
