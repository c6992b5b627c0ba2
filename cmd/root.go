// Package cmd implements the CLI command structure for tasks.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks/internal/config"
	"github.com/nibzard/tasks/internal/logging"
	"github.com/nibzard/tasks/internal/shell"
	"github.com/nibzard/tasks/internal/todo"
	"github.com/nibzard/tasks/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// streams are the process's standard streams. Tests swap them for buffers.
type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func stdStreams() streams {
	return streams{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
}

// Run executes the tasks CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, stdStreams())
}

func run(ctx context.Context, args []string, std streams) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	fs.SetOutput(std.errOut)
	fs.Usage = func() {
		printUsage(fs, std.errOut)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, std.out)
		return nil
	}
	if *showVersion {
		return versionCommand(std.out)
	}

	// Without a subcommand, pick the host that fits the terminal.
	subcommand := defaultSubcommand(std)
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs, std)
	case "shell":
		return shellCommand(ctx, cfg, remainingArgs, std)
	case "config":
		return configCommand(cws, remainingArgs, std)
	case "log", "tail":
		return logCommand(ctx, cfg, remainingArgs, std)
	case "version":
		return versionCommand(std.out)
	case "help":
		printUsage(fs, std.out)
		return nil
	default:
		fmt.Fprintf(std.errOut, "Unknown command: %s\n", subcommand)
		printUsage(fs, std.errOut)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

func defaultSubcommand(std streams) string {
	if ui.IsTTY(std.out) {
		if f, ok := std.in.(*os.File); ok && ui.IsTTY(f) {
			return "tui"
		}
	}
	return "shell"
}

// newStore builds the session store and logger. The returned close function
// flushes the session log.
func newStore(cfg *config.Config, logFallback io.Writer) (*todo.Store, *log.Logger, func() error, error) {
	ids, err := todo.NewIDGenerator(cfg.IDScheme)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, closeLog, err := logging.Open(cfg, logFallback)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening log: %w", err)
	}

	store := todo.NewStore(ids)
	store.OnChange(func(l *todo.List) {
		open, done := l.Counts()
		logger.Debug("list changed", "tasks", l.Len(), "open", open, "done", done)
	})
	logger.Debug("store ready", "id_scheme", cfg.IDScheme)
	return store, logger, closeLog, nil
}

// tuiCommand launches the TUI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("tasks tui", flag.ContinueOnError)
	fs.SetOutput(std.errOut)
	inline := fs.Bool("inline", false, "Render inline instead of taking over the screen")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !ui.IsTTY(std.out) {
		return errors.New("tui requires a TTY, use 'tasks shell' instead")
	}

	// The TUI owns the terminal: without a log file, logs are dropped.
	store, logger, closeLog, err := newStore(cfg, nil)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := ui.RunTUI(ctx, cfg, store, logger, ui.WithAltScreen(!*inline), ui.WithOutput(std.out)); err != nil {
		logger.Error("tui exited", "err", err)
		return err
	}
	return nil
}

// shellCommand runs the line-oriented host over stdin.
func shellCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("tasks shell", flag.ContinueOnError)
	fs.SetOutput(std.errOut)
	prompt := fs.String("prompt", "", "Prompt printed before each command")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, logger, closeLog, err := newStore(cfg, std.errOut)
	if err != nil {
		return err
	}
	defer closeLog()

	sh := shell.New(store, std.out, shell.WithPrompt(*prompt), shell.WithLogger(logger))

	// Remaining args are files of commands, run in order. With files, stdin
	// is not read at all. A quit in any file ends the whole session.
	if fs.NArg() > 0 {
		for _, path := range fs.Args() {
			if err := runScriptFile(ctx, sh, path); err != nil {
				logger.Error("script failed", "path", path, "err", err)
				return err
			}
			if sh.Quit() {
				logger.Debug("quit in script", "path", path)
				break
			}
		}
		return nil
	}

	if err := sh.Run(ctx, std.in); err != nil {
		logger.Error("shell exited", "err", err)
		return err
	}
	return nil
}

func runScriptFile(ctx context.Context, sh *shell.Shell, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()
	if err := sh.Run(ctx, f); err != nil {
		return fmt.Errorf("running %s: %w", path, err)
	}
	return nil
}

// configCommand prints the effective configuration and where each value
// came from.
func configCommand(cws *config.ConfigWithSources, args []string, std streams) error {
	fs := flag.NewFlagSet("tasks config", flag.ContinueOnError)
	fs.SetOutput(std.errOut)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(std.out, config.ExampleConfig())
		return nil
	}

	if len(cws.Files) == 0 {
		fmt.Fprintln(std.out, "Config files: (none)")
	} else {
		fmt.Fprintln(std.out, "Config files:")
		for _, f := range cws.Files {
			fmt.Fprintf(std.out, "  %s\n", f)
		}
	}
	fmt.Fprintln(std.out)

	width := 0
	for _, field := range config.Fields() {
		width = max(width, len(field))
	}
	for _, field := range config.Fields() {
		value, _ := cws.Config.Value(field)
		fmt.Fprintf(std.out, "%-*s = %-12q # %s\n", width, field, value, cws.Sources[field])
	}
	return nil
}

// logCommand prints the latest session log.
func logCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("tasks log", flag.ContinueOnError)
	fs.SetOutput(std.errOut)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(std.out, "No log files found. Enable them with --log-file or log_file = true.")
		return nil
	}

	fmt.Fprintf(std.errOut, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(std.errOut, "(Ctrl+C to stop)")
	}
	return logging.TailLog(ctx, std.out, logPath, *n, *follow)
}

func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "tasks version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasks - a to-do list for the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasks [options] [command] [command options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui           Interactive list (default on a terminal)")
	fmt.Fprintln(w, "  shell [file]  Read commands from stdin or files (default otherwise)")
	fmt.Fprintln(w, "  config        Show the effective config and its sources")
	fmt.Fprintln(w, "  log           Print the latest session log")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tui Options:")
	fmt.Fprintln(w, "  -inline")
	fmt.Fprintln(w, "        Render inline instead of taking over the screen")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Shell Options:")
	fmt.Fprintln(w, "  -prompt string")
	fmt.Fprintln(w, "        Prompt printed before each command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options:")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example config file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Log Options:")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}
