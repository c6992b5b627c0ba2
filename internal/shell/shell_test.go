package shell

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks/internal/todo"
)

func runScript(t *testing.T, script string) (*todo.Store, string) {
	t.Helper()
	store := todo.NewStore(nil)
	var out bytes.Buffer
	sh := New(store, &out)
	if err := sh.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return store, out.String()
}

func TestWalkthrough(t *testing.T) {
	store, out := runScript(t, `
add buy milk
toggle 1
edit 1 buy oat milk
ls
rm 1
ls
`)
	want := strings.Join([]string{
		"added 1",
		"[x] 1 buy milk",
		"[x] 1 buy oat milk",
		"[x] 1 buy oat milk",
		"0 open, 1 done",
		"deleted 1",
		"(no tasks)",
		"",
	}, "\n")
	if out != want {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", out, want)
	}
	if store.List().Len() != 0 {
		t.Errorf("Len: got %d, want 0", store.List().Len())
	}
}

func TestExec(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"blank add", "add    ", "error: description is blank\n"},
		{"bare add", "add", "error: description is blank\n"},
		{"toggle unknown", "toggle 42", "error: no task \"42\"\n"},
		{"toggle missing id", "toggle", "error: usage: toggle <id>\n"},
		{"edit unknown", "edit 42 text", "error: no task \"42\"\n"},
		{"edit missing id", "edit", "error: usage: edit <id> <text>\n"},
		{"delete unknown", "delete 42", "error: no task \"42\"\n"},
		{"rm missing id", "rm", "error: usage: rm <id>\n"},
		{"unknown verb", "frobnicate 1", "error: unknown command \"frobnicate\" (try help)\n"},
		{"comment", "# add nothing", ""},
		{"blank line", "   ", ""},
		{"empty list", "ls", "(no tasks)\n"},
		{"clear", "clear", "cleared\n"},
		{"check empty", "check", "ok\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := todo.NewStore(nil)
			var out bytes.Buffer
			sh := New(store, &out)
			if quit := sh.Exec(tt.line); quit {
				t.Fatal("unexpected quit")
			}
			if out.String() != tt.want {
				t.Errorf("got %q, want %q", out.String(), tt.want)
			}
			if store.List().Len() != 0 {
				t.Errorf("store should be unchanged, got %d tasks", store.List().Len())
			}
		})
	}
}

func TestExecQuit(t *testing.T) {
	for _, line := range []string{"quit", "exit", "  QUIT"} {
		sh := New(todo.NewStore(nil), io.Discard)
		if !sh.Exec(line) {
			t.Errorf("%q should quit", line)
		}
	}
}

func TestQuitStopsReading(t *testing.T) {
	store, _ := runScript(t, "add a\nquit\nadd b\n")
	if store.List().Len() != 1 {
		t.Errorf("Len: got %d, want 1", store.List().Len())
	}
}

func TestAddKeepsDescriptionVerbatim(t *testing.T) {
	store, _ := runScript(t, "add   padded text  \n")
	if got := store.List().At(0).Description; got != "  padded text  " {
		t.Errorf("Description: got %q", got)
	}
}

func TestEditToEmpty(t *testing.T) {
	store, out := runScript(t, "add a\nedit 1\n")
	if got := store.List().At(0).Description; got != "" {
		t.Errorf("Description: got %q, want empty", got)
	}
	if !strings.HasSuffix(out, "[ ] 1 \n") {
		t.Errorf("output: got %q", out)
	}
}

func TestEditUnchangedStillPrints(t *testing.T) {
	_, out := runScript(t, "add a\nedit 1 a\n")
	if !strings.HasSuffix(out, "[ ] 1 a\n") {
		t.Errorf("output: got %q", out)
	}
}

func TestCRLFInput(t *testing.T) {
	store, _ := runScript(t, "add a\r\ntoggle 1\r\n")
	got := store.List().At(0)
	if got.Description != "a" || !got.Completed {
		t.Errorf("task: got %+v", got)
	}
}

func TestJSON(t *testing.T) {
	_, out := runScript(t, "add a\nadd b\ntoggle 2\njson\n")
	start := strings.Index(out, "{")
	if start < 0 {
		t.Fatalf("no JSON in output: %q", out)
	}

	var snapshot struct {
		Tasks []todo.Task `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(out[start:]), &snapshot); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := []todo.Task{
		{ID: "1", Description: "a"},
		{ID: "2", Description: "b", Completed: true},
	}
	if len(snapshot.Tasks) != len(want) {
		t.Fatalf("tasks: got %d, want %d", len(snapshot.Tasks), len(want))
	}
	for i := range want {
		if snapshot.Tasks[i] != want[i] {
			t.Errorf("tasks[%d]: got %+v, want %+v", i, snapshot.Tasks[i], want[i])
		}
	}
}

func TestCheckAfterEdits(t *testing.T) {
	_, out := runScript(t, "add a\nadd b\nedit 2\ncheck\n")
	if !strings.HasSuffix(out, "ok\n") {
		t.Errorf("check should pass, got %q", out)
	}
}

func TestClear(t *testing.T) {
	store, _ := runScript(t, "add a\nadd b\nclear\nadd c\n")
	list := store.List()
	if list.Len() != 1 {
		t.Fatalf("Len: got %d, want 1", list.Len())
	}
	if got := list.At(0).ID; got != "3" {
		t.Errorf("ids should not be reused after clear, got %q", got)
	}
}

func TestHelp(t *testing.T) {
	_, out := runScript(t, "help\n")
	for _, verb := range []string{"add", "toggle", "edit", "rm", "ls", "json", "check", "clear", "quit"} {
		if !strings.Contains(out, verb) {
			t.Errorf("help should mention %q", verb)
		}
	}
}

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	sh := New(todo.NewStore(nil), &out, WithPrompt("> "))
	if err := sh.Run(context.Background(), strings.NewReader("add a\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.String(); got != "> added 1\n> " {
		t.Errorf("got %q", got)
	}
}

func TestLogsMutations(t *testing.T) {
	var logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})
	sh := New(todo.NewStore(nil), io.Discard, WithLogger(logger))

	sh.Exec("add a")
	sh.Exec("toggle 9")

	got := logs.String()
	if !strings.Contains(got, "add") || !strings.Contains(got, "id=1") {
		t.Errorf("add not logged: %q", got)
	}
	if !strings.Contains(got, "id=9") || !strings.Contains(got, "changed=false") {
		t.Errorf("no-op toggle not logged: %q", got)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sh := New(todo.NewStore(nil), io.Discard)

	done := make(chan error, 1)
	go func() {
		done <- sh.Run(ctx, r)
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("got %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("boom")
}

func TestRunReadError(t *testing.T) {
	sh := New(todo.NewStore(nil), io.Discard)
	err := sh.Run(context.Background(), failingReader{})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("got %v, want read error", err)
	}
}

func TestLongLineBelowLimit(t *testing.T) {
	long := strings.Repeat("a", 70*1024)
	store, out := runScript(t, "add "+long+"\nadd after\n")

	list := store.List()
	if list.Len() != 2 {
		t.Fatalf("Len: got %d, want 2 (output %q)", list.Len(), out[:min(len(out), 80)])
	}
	if got := list.At(0).Description; got != long {
		t.Errorf("long description truncated to %d bytes", len(got))
	}
	if got := list.At(1).Description; got != "after" {
		t.Errorf("Description: got %q, want after", got)
	}
}

func TestOverlongLineIsSkipped(t *testing.T) {
	store := todo.NewStore(nil)
	var out bytes.Buffer
	sh := New(store, &out, WithMaxLineBytes(16))

	script := "add " + strings.Repeat("x", 5000) + "\nadd after\nls\n"
	if err := sh.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := strings.Join([]string{
		"error: line too long (limit 16 bytes)",
		"added 1",
		"[ ] 1 after",
		"1 open, 0 done",
		"",
	}, "\n")
	if out.String() != want {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestReadLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  []inputLine
	}{
		{"plain", "a\nb\n", 8, []inputLine{{text: "a"}, {text: "b"}}},
		{"no trailing newline", "a\nb", 8, []inputLine{{text: "a"}, {text: "b"}}},
		{"crlf", "ab\r\n", 2, []inputLine{{text: "ab"}}},
		{"exactly at limit", "abcd\n", 4, []inputLine{{text: "abcd"}}},
		{"one over limit", "abcde\nok\n", 4, []inputLine{{tooLong: true}, {text: "ok"}}},
		{"over reader buffer", strings.Repeat("z", 10000) + "\nok\n", 100, []inputLine{{tooLong: true}, {text: "ok"}}},
		{"overlong at eof", strings.Repeat("z", 10000), 100, []inputLine{{tooLong: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			br := bufio.NewReader(strings.NewReader(tt.input))
			var got []inputLine
			for {
				line, err := readLine(br, tt.limit)
				if err == io.EOF && line.text == "" && !line.tooLong {
					break
				}
				got = append(got, line)
				if err != nil {
					break
				}
			}
			if len(got) != len(tt.want) {
				t.Fatalf("lines: got %+v, want %+v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("line %d: got %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTabSeparatesWords(t *testing.T) {
	store, _ := runScript(t, "add\tbuy milk\nedit\t1\tbuy oat milk\ntoggle\t1\n")

	got := store.List().At(0)
	want := todo.Task{ID: "1", Description: "buy oat milk", Completed: true}
	if got != want {
		t.Errorf("task: got %+v, want %+v", got, want)
	}
}

func TestCutField(t *testing.T) {
	tests := []struct {
		in   string
		word string
		rest string
	}{
		{"", "", ""},
		{"ls", "ls", ""},
		{"add buy milk", "add", "buy milk"},
		{"add\tbuy milk", "add", "buy milk"},
		{" \tedit 1  two", "edit", "1  two"},
		{"edit 1", "edit", "1"},
		{"edit 1 ", "edit", "1 "},
	}
	for _, tt := range tests {
		word, rest := cutField(tt.in)
		if word != tt.word || rest != tt.rest {
			t.Errorf("cutField(%q) = %q, %q; want %q, %q", tt.in, word, rest, tt.word, tt.rest)
		}
	}
}

func TestQuitReleasesReader(t *testing.T) {
	before := runtime.NumGoroutine()

	for i := 0; i < 50; i++ {
		sh := New(todo.NewStore(nil), io.Discard)
		if err := sh.Run(context.Background(), strings.NewReader("quit\nadd x\nadd y\n")); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}

	// Reader goroutines exit asynchronously once Run returns.
	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before+2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := runtime.NumGoroutine(); n > before+2 {
		t.Errorf("goroutines: %d before, %d after 50 quits", before, n)
	}
}

func TestQuitIsSticky(t *testing.T) {
	store := todo.NewStore(nil)
	sh := New(store, io.Discard)

	if err := sh.Run(context.Background(), strings.NewReader("add a\nquit\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !sh.Quit() {
		t.Fatal("Quit should report true after quit")
	}
	if err := sh.Run(context.Background(), strings.NewReader("add b\n")); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if store.List().Len() != 1 {
		t.Errorf("Run after quit should not read, got %d tasks", store.List().Len())
	}
}
