package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/abatilo/todo/internal/config"
	"github.com/abatilo/todo/internal/logging"
	"github.com/abatilo/todo/internal/output"
	"github.com/abatilo/todo/internal/storage"
	"github.com/abatilo/todo/internal/task"
	"github.com/abatilo/todo/internal/todo"
)

func main() {
	os.Exit(run())
}

// run executes the command line and returns the process exit code.
func run() int {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(os.Args[1:])
	if err := root.Execute(); err != nil {
		return a.report(err)
	}
	return 0
}

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	jsonOutput bool
	dataFile   string
	perProject bool
	configPath string
	noColor    bool
	verbose    bool
}

// app carries everything a command needs. One app serves a whole process,
// including every line of an interactive shell.
type app struct {
	flags globalFlags

	cfg       *config.Config
	logger    *zap.Logger
	formatter output.Formatter
	files     *storage.FileStore
	store     *todo.Store
	now       func() time.Time

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		logger: zap.NewNop(),
		now:    time.Now,
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "todo",
		Short:         "A file-backed personal task list",
		Long:          "todo - A personal task list kept in a single JSON file.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	f := rootCmd.PersistentFlags()
	f.BoolVar(&a.flags.jsonOutput, "json", false, "Output in JSON format")
	f.StringVar(&a.flags.dataFile, "file", "", "Task file (default ~/.todo/todo.json, or $"+config.EnvFile+")")
	f.BoolVar(&a.flags.perProject, "project", false, "Use a task file for the current git repository")
	f.StringVar(&a.flags.configPath, "config", "", "Config file (default ~/.config/todo/config.toml, or $"+config.EnvConfig+")")
	f.BoolVar(&a.flags.noColor, "no-color", false, "Disable colored output")
	f.BoolVarP(&a.flags.verbose, "verbose", "v", false, "Log debug output to stderr")

	addCommands(rootCmd, a)
	rootCmd.AddCommand(shellCmd(a))
	return rootCmd
}

// addCommands registers every command that can also run inside the shell.
func addCommands(root *cobra.Command, a *app) {
	root.AddCommand(
		addCmd(a),
		editCmd(a),
		doneCmd(a),
		reopenCmd(a),
		showCmd(a),
		rmCmd(a),
		listCmd(a),
		statsCmd(a),
		cleanCmd(a),
		clearCmd(a),
		exportCmd(a),
		importCmd(a),
	)
}

// setup loads configuration and builds the logger, formatter and file store.
// It runs once per process.
func (a *app) setup() error {
	if a.files != nil {
		return nil
	}

	cfgPath := a.flags.configPath
	if cfgPath == "" {
		var err error
		if cfgPath, err = config.Path(); err != nil {
			return err
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.flags.verbose {
		level = "debug"
	}
	logger, err := logging.New(level)
	if err != nil {
		return err
	}
	a.logger = logger

	color := cfg.Color && !a.flags.noColor && isTerminal(a.out)
	a.formatter = output.New(a.flags.jsonOutput, color, task.Today(a.now()))

	path := a.flags.dataFile
	if path == "" {
		path = cfg.DataFile
	}
	if path == "" {
		if path, err = storage.DefaultPath(a.flags.perProject || cfg.PerProject); err != nil {
			return err
		}
	}
	a.files = storage.NewFileStore(path, logger)
	a.logger.Debug("using task file", zap.String("path", path), zap.String("config", cfgPath))
	return nil
}

// loadStore reads the task file the first time a command needs it.
func (a *app) loadStore() *todo.Store {
	if a.store == nil {
		a.store = todo.New(a.files.Load(), todo.WithClock(a.now))
	}
	return a.store
}

// save writes the store to disk immediately.
func (a *app) save() error {
	return a.loadStore().Persist(a.files.Save)
}

func (a *app) today() string {
	return task.Today(a.now())
}

func (a *app) print(s string) {
	fmt.Fprint(a.out, s)
}

func (a *app) warn(format string, args ...any) {
	fmt.Fprintf(a.errOut, "warning: "+format+"\n", args...)
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}
