package todo

import (
	"encoding/json"
	"strings"
)

// Task represents a single entry in the task list.
type Task struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// IsZero reports whether the task has no id. Such a task can never be
// addressed by Toggle, Edit or Delete.
func (t *Task) IsZero() bool {
	return t.ID == ""
}

// List is an immutable, ordered sequence of tasks.
//
// Every mutation returns a new *List and leaves the receiver untouched.
// A mutation that matches nothing returns the receiver itself, so callers
// can detect "no change" with ==. A nil *List behaves like the empty list.
type List struct {
	tasks []Task
}

// Empty returns a list with no tasks.
func Empty() *List {
	return &List{}
}

// NewList returns a list holding a copy of tasks.
func NewList(tasks ...Task) *List {
	return &List{tasks: cloneTasks(tasks)}
}

// Len returns the number of tasks.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.tasks)
}

// At returns the task at index i. It panics if i is out of range, like a slice.
func (l *List) At(i int) Task {
	return l.tasks[i]
}

// Tasks returns a copy of the tasks in display order.
func (l *List) Tasks() []Task {
	if l == nil {
		return nil
	}
	return cloneTasks(l.tasks)
}

// Index returns the position of the task with the given id, or -1.
func (l *List) Index(id string) int {
	if l == nil {
		return -1
	}
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns the task with the given id.
func (l *List) Get(id string) (Task, bool) {
	i := l.Index(id)
	if i < 0 {
		return Task{}, false
	}
	return l.tasks[i], true
}

// Counts returns the number of open and completed tasks.
func (l *List) Counts() (open, done int) {
	if l == nil {
		return 0, 0
	}
	for _, t := range l.tasks {
		if t.Completed {
			done++
		} else {
			open++
		}
	}
	return open, done
}

// Add returns a new list with a fresh, not-completed task appended.
// The description is stored as given. Callers decide whether a description
// is acceptable (see IsBlank); Add itself never rejects.
func (l *List) Add(id, description string) *List {
	n := l.Len()
	tasks := make([]Task, n, n+1)
	if n > 0 {
		copy(tasks, l.tasks)
	}
	tasks = append(tasks, Task{ID: id, Description: description})
	return &List{tasks: tasks}
}

// Toggle returns a new list with the matching task's completion negated.
// Unknown ids return the receiver unchanged.
func (l *List) Toggle(id string) *List {
	return l.update(id, func(t *Task) {
		t.Completed = !t.Completed
	})
}

// Edit returns a new list with the matching task's description replaced
// verbatim. Unknown ids return the receiver unchanged.
func (l *List) Edit(id, description string) *List {
	return l.update(id, func(t *Task) {
		t.Description = description
	})
}

// Delete returns a new list without the matching task. The relative order
// of the remaining tasks is kept. Unknown ids return the receiver unchanged.
func (l *List) Delete(id string) *List {
	i := l.Index(id)
	if i < 0 {
		return l
	}
	tasks := make([]Task, 0, len(l.tasks)-1)
	tasks = append(tasks, l.tasks[:i]...)
	tasks = append(tasks, l.tasks[i+1:]...)
	return &List{tasks: tasks}
}

func (l *List) update(id string, updater func(*Task)) *List {
	i := l.Index(id)
	if i < 0 {
		return l
	}
	tasks := cloneTasks(l.tasks)
	updater(&tasks[i])
	return &List{tasks: tasks}
}

// MarshalJSON renders the list as {"tasks": [...]}.
func (l *List) MarshalJSON() ([]byte, error) {
	tasks := l.Tasks()
	if tasks == nil {
		tasks = []Task{}
	}
	return json.Marshal(struct {
		Tasks []Task `json:"tasks"`
	}{Tasks: tasks})
}

// IsBlank reports whether a description is empty once surrounding
// whitespace is removed. Blank descriptions are never added.
func IsBlank(description string) bool {
	return strings.TrimSpace(description) == ""
}

func cloneTasks(tasks []Task) []Task {
	if len(tasks) == 0 {
		return nil
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
