package todo

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// ID scheme names accepted by NewIDGenerator.
const (
	IDSchemeCounter = "counter"
	IDSchemeUUID    = "uuid"
)

// IDGenerator hands out task identifiers. Every id returned by one
// generator is distinct from every other id it has returned.
type IDGenerator interface {
	NextID() string
}

// CounterIDs issues "1", "2", "3", ... It is safe for concurrent use.
type CounterIDs struct {
	last atomic.Uint64
}

// NextID returns the next decimal id.
func (c *CounterIDs) NextID() string {
	return strconv.FormatUint(c.last.Add(1), 10)
}

// UUIDIDs issues time-ordered UUIDv7 strings.
type UUIDIDs struct{}

// NextID returns a new UUIDv7.
func (UUIDIDs) NextID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewIDGenerator returns the generator for a scheme name.
// An empty scheme selects the counter.
func NewIDGenerator(scheme string) (IDGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", IDSchemeCounter:
		return &CounterIDs{}, nil
	case IDSchemeUUID:
		return UUIDIDs{}, nil
	default:
		return nil, fmt.Errorf("unknown id scheme %q, must be one of: %s, %s", scheme, IDSchemeCounter, IDSchemeUUID)
	}
}
