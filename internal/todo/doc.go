// Package todo holds the in-memory task list and its mutations.
//
// A List is an immutable snapshot. Add, Toggle, Edit and Delete each
// return a new List; a call that matches no task returns the receiver
// itself:
//
//	l := todo.Empty()
//	l = l.Add("1", "buy milk")         // [{1 "buy milk" false}]
//	l = l.Toggle("1")                  // [{1 "buy milk" true}]
//	l = l.Edit("1", "buy oat milk")    // [{1 "buy oat milk" true}]
//	same := l.Delete("42")             // same == l
//	l = l.Delete("1")                  // []
//
// Store wraps the current snapshot for a session together with an
// IDGenerator, and enforces the add policy: blank descriptions are ignored.
//
// # Identifiers
//
//   - "counter": decimal ids starting at 1 (default)
//   - "uuid": time-ordered UUIDv7 strings
//
// Ids are never reused within a session, not even after Delete or Reset.
//
// # Snapshot format
//
// MarshalJSON renders a snapshot as:
//
//	{
//	  "tasks": [
//	    {"id": "1", "description": "buy milk", "completed": false}
//	  ]
//	}
//
// Validate checks a snapshot against the embedded JSON Schema
// (tasks.schema.json) and then checks that ids are present and unique.
// Snapshots are output only; nothing in this package reads them back.
package todo
