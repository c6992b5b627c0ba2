// Package shell provides a line-oriented host for the task store.
//
// It reads one command per line and writes plain-text results, which makes
// it usable from pipes and scripts where the TUI cannot run:
//
//	printf 'add buy milk\ntoggle 1\nls\n' | tasks shell
//
// Every command is total: a bad line prints an error and the shell keeps
// reading.
package shell

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks/internal/logging"
	"github.com/nibzard/tasks/internal/todo"
)

// DefaultMaxLineBytes bounds the length of one command line.
const DefaultMaxLineBytes = 1 << 20

// Option configures a Shell.
type Option func(*Shell)

// WithPrompt prints prompt before reading each line. The prompt is also
// written before the read that reaches end of input.
func WithPrompt(prompt string) Option {
	return func(s *Shell) {
		s.prompt = prompt
	}
}

// WithLogger sets the logger used for mutation records.
func WithLogger(logger *log.Logger) Option {
	return func(s *Shell) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxLineBytes sets the longest accepted command line. Longer lines
// are reported and skipped.
func WithMaxLineBytes(n int) Option {
	return func(s *Shell) {
		if n > 0 {
			s.maxLine = n
		}
	}
}

// Shell executes text commands against a Store.
type Shell struct {
	store   *todo.Store
	out     io.Writer
	logger  *log.Logger
	prompt  string
	maxLine int
	quit    bool
}

// New creates a shell writing results to out.
func New(store *todo.Store, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		store:   store,
		out:     out,
		logger:  logging.Discard(),
		maxLine: DefaultMaxLineBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Quit reports whether a quit command has been executed. Once set, Run
// returns immediately without reading.
func (s *Shell) Quit() bool {
	return s.quit
}

type inputLine struct {
	text    string
	tooLong bool
}

// Run reads commands from r until EOF, a quit command, or ctx is done.
func (s *Shell) Run(ctx context.Context, r io.Reader) error {
	if s.quit {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan inputLine)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		br := bufio.NewReader(r)
		for {
			line, err := readLine(br, s.maxLine)
			if err == io.EOF && line.text == "" && !line.tooLong {
				errc <- nil
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
			if err == io.EOF {
				errc <- nil
				return
			}
			if err != nil {
				errc <- err
				return
			}
		}
	}()

	for {
		s.writePrompt()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if err := <-errc; err != nil {
					return fmt.Errorf("reading input: %w", err)
				}
				return nil
			}
			if line.tooLong {
				s.logger.Warn("line too long", "limit", s.maxLine)
				s.errorf("line too long (limit %d bytes)", s.maxLine)
				continue
			}
			if s.Exec(line.text) {
				return nil
			}
		}
	}
}

// readLine reads one line without its terminator. A line longer than limit
// bytes is consumed up to its newline and returned empty with tooLong set.
func readLine(br *bufio.Reader, limit int) (inputLine, error) {
	var buf []byte
	tooLong := false
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			// +2 leaves room for a \r\n terminator.
			if len(buf)+len(chunk) > limit+2 {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		text := strings.TrimRight(string(buf), "\r\n")
		if len(text) > limit {
			tooLong = true
			text = ""
		}
		return inputLine{text: text, tooLong: tooLong}, err
	}
}

func (s *Shell) writePrompt() {
	if s.prompt != "" {
		fmt.Fprint(s.out, s.prompt)
	}
}

// Exec runs a single command line. It reports whether the line asked the
// shell to stop.
func (s *Shell) Exec(line string) bool {
	line = strings.TrimRight(line, "\r\n")
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return false
	}

	verb, rest := cutField(line)
	switch strings.ToLower(verb) {
	case "add":
		s.add(rest)
	case "toggle":
		s.toggle(strings.TrimSpace(rest))
	case "edit":
		s.edit(rest)
	case "rm", "delete":
		s.remove(strings.TrimSpace(rest))
	case "ls", "list":
		s.printList()
	case "json":
		s.printJSON()
	case "check":
		s.check()
	case "clear":
		changed := s.store.Reset()
		s.logger.Debug("list cleared", "changed", changed)
		fmt.Fprintln(s.out, "cleared")
	case "help":
		printHelp(s.out)
	case "quit", "exit":
		s.quit = true
		return true
	default:
		s.errorf("unknown command %q (try help)", verb)
	}
	return false
}

func (s *Shell) add(description string) {
	task, ok := s.store.Add(description)
	s.logger.Debug("add", "id", task.ID, "changed", ok)
	if !ok {
		s.errorf("description is blank")
		return
	}
	fmt.Fprintf(s.out, "added %s\n", task.ID)
}

func (s *Shell) toggle(id string) {
	if id == "" {
		s.errorf("usage: toggle <id>")
		return
	}
	changed := s.store.Toggle(id)
	s.logger.Debug("toggle", "id", id, "changed", changed)
	if !changed {
		s.errorf("no task %q", id)
		return
	}
	task, _ := s.store.List().Get(id)
	fmt.Fprintln(s.out, formatTask(task))
}

// edit takes "<id> <text>". The text after the first space or tab is
// stored verbatim, including an empty one.
func (s *Shell) edit(args string) {
	id, text := cutField(args)
	if id == "" {
		s.errorf("usage: edit <id> <text>")
		return
	}
	if _, ok := s.store.List().Get(id); !ok {
		s.logger.Debug("edit", "id", id, "changed", false)
		s.errorf("no task %q", id)
		return
	}
	changed := s.store.Edit(id, text)
	s.logger.Debug("edit", "id", id, "changed", changed)
	task, _ := s.store.List().Get(id)
	fmt.Fprintln(s.out, formatTask(task))
}

func (s *Shell) remove(id string) {
	if id == "" {
		s.errorf("usage: rm <id>")
		return
	}
	changed := s.store.Delete(id)
	s.logger.Debug("delete", "id", id, "changed", changed)
	if !changed {
		s.errorf("no task %q", id)
		return
	}
	fmt.Fprintf(s.out, "deleted %s\n", id)
}

func (s *Shell) printList() {
	list := s.store.List()
	if list.Len() == 0 {
		fmt.Fprintln(s.out, "(no tasks)")
		return
	}
	for _, task := range list.Tasks() {
		fmt.Fprintln(s.out, formatTask(task))
	}
	open, done := list.Counts()
	fmt.Fprintf(s.out, "%d open, %d done\n", open, done)
}

func (s *Shell) printJSON() {
	data, err := json.MarshalIndent(s.store.List(), "", "  ")
	if err != nil {
		s.logger.Error("encoding snapshot", "err", err)
		s.errorf("encoding snapshot: %v", err)
		return
	}
	fmt.Fprintln(s.out, string(data))
}

func (s *Shell) check() {
	result := s.store.List().Validate(todo.ValidationOptions{})
	for _, w := range result.Warnings {
		fmt.Fprintf(s.out, "warning: %s\n", w)
	}
	if result.Valid {
		fmt.Fprintln(s.out, "ok")
		return
	}
	for _, err := range result.Errors {
		s.logger.Error("snapshot invalid", "err", err)
		s.errorf("%v", err)
	}
}

func (s *Shell) errorf(format string, args ...any) {
	fmt.Fprintf(s.out, "error: "+format+"\n", args...)
}

// cutField splits off the first word of s. Leading blanks are skipped and
// the word ends at the first space or tab; rest is everything after that
// separator, unmodified.
func cutField(s string) (word, rest string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}

func formatTask(t todo.Task) string {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}
	return fmt.Sprintf("%s %s %s", mark, t.ID, t.Description)
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <text>          Add a task")
	fmt.Fprintln(w, "  toggle <id>         Mark a task done or not done")
	fmt.Fprintln(w, "  edit <id> <text>    Replace a task's description")
	fmt.Fprintln(w, "  rm <id>             Delete a task (alias: delete)")
	fmt.Fprintln(w, "  ls                  List tasks (alias: list)")
	fmt.Fprintln(w, "  json                Print the list as JSON")
	fmt.Fprintln(w, "  check               Validate the list")
	fmt.Fprintln(w, "  clear               Remove all tasks")
	fmt.Fprintln(w, "  help                Show this help")
	fmt.Fprintln(w, "  quit                Leave the shell (alias: exit)")
}
