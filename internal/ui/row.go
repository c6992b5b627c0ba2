package ui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nibzard/tasks/internal/todo"
)

// row is the view-local state of one rendered task. It is not part of the
// task data: it is rebuilt from scratch whenever the task it was built from
// changes or disappears.
type row struct {
	task    todo.Task
	editing bool
	draft   textinput.Model
}

func newRow(task todo.Task) row {
	draft := textinput.New()
	draft.Prompt = ""
	draft.CharLimit = 500
	draft.SetValue(task.Description)
	return row{task: task, draft: draft}
}

// syncRows derives rows for list, carrying over the state of rows whose
// task is unchanged.
func syncRows(prev []row, list *todo.List) []row {
	byID := make(map[string]row, len(prev))
	for _, r := range prev {
		byID[r.task.ID] = r
	}

	rows := make([]row, 0, list.Len())
	for _, task := range list.Tasks() {
		if r, ok := byID[task.ID]; ok && r.task == task {
			rows = append(rows, r)
			continue
		}
		rows = append(rows, newRow(task))
	}
	return rows
}

// beginEdit switches the row into edit mode with the draft set to the
// current description.
func (r *row) beginEdit() {
	r.editing = true
	r.draft.SetValue(r.task.Description)
	r.draft.CursorEnd()
	r.draft.Focus()
}

// cancelEdit leaves edit mode and drops the draft.
func (r *row) cancelEdit() {
	r.editing = false
	r.draft.Blur()
	r.draft.SetValue(r.task.Description)
}
