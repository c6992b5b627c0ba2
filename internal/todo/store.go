package todo

import "sync"

// Store owns the current task list for a session.
//
// Each mutation swaps in a new *List; snapshots handed out by List are
// never modified afterwards.
type Store struct {
	mu        sync.Mutex
	list      *List
	ids       IDGenerator
	listeners []func(*List)
}

// NewStore returns an empty store. A nil generator selects the counter.
func NewStore(ids IDGenerator) *Store {
	if ids == nil {
		ids = &CounterIDs{}
	}
	return &Store{list: Empty(), ids: ids}
}

// List returns the current snapshot.
func (s *Store) List() *List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list
}

// OnChange registers fn to be called with the new snapshot after every
// mutation that changed the list. Listeners run on the mutating goroutine,
// after the store lock is released.
func (s *Store) OnChange(fn func(*List)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Add appends a new task unless the description is blank.
// It returns the created task and whether anything was added.
func (s *Store) Add(description string) (Task, bool) {
	if IsBlank(description) {
		return Task{}, false
	}
	var task Task
	s.apply(func(l *List) *List {
		task = Task{ID: s.ids.NextID(), Description: description}
		return l.Add(task.ID, description)
	})
	return task, true
}

// Toggle flips completion of the task with the given id.
func (s *Store) Toggle(id string) bool {
	return s.apply(func(l *List) *List { return l.Toggle(id) })
}

// Edit replaces the description of the task with the given id.
// The description is stored verbatim, empty included.
func (s *Store) Edit(id, description string) bool {
	return s.apply(func(l *List) *List { return l.Edit(id, description) })
}

// Delete removes the task with the given id.
func (s *Store) Delete(id string) bool {
	return s.apply(func(l *List) *List { return l.Delete(id) })
}

// Reset discards every task. Ids already issued are not reused.
func (s *Store) Reset() bool {
	return s.apply(func(l *List) *List {
		if l.Len() == 0 {
			return l
		}
		return Empty()
	})
}

func (s *Store) apply(op func(*List) *List) bool {
	s.mu.Lock()
	prev := s.list
	next := op(prev)
	if next == prev {
		s.mu.Unlock()
		return false
	}
	s.list = next
	listeners := append([]func(*List){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return true
}
