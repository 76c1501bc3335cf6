package repository

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/iliyamo/tickethub/internal/model"
)

// CategoryAll is the filter value that disables category filtering.
const CategoryAll = "all"

//go:embed data/catalog.json
var defaultCatalog []byte

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EventRepo is the read-only event catalog.  It is populated once by
// NewEventRepo and never mutated afterwards, so it is safe for any number
// of concurrent readers without locking.
type EventRepo struct {
	events []model.Event
	byID   map[int]int // event id -> index in events
}

// NewEventRepo builds a catalog from events, preserving their order.  It
// rejects duplicate event ids, non-positive prices, empty titles and
// venue ids repeated within one event.
func NewEventRepo(events []model.Event) (*EventRepo, error) {
	r := &EventRepo{
		events: make([]model.Event, 0, len(events)),
		byID:   make(map[int]int, len(events)),
	}
	for _, e := range events {
		if err := validateEvent(e); err != nil {
			return nil, err
		}
		if _, dup := r.byID[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate event id %d", ErrInvalidCatalog, e.ID)
		}
		r.byID[e.ID] = len(r.events)
		r.events = append(r.events, e.Clone())
	}
	return r, nil
}

func validateEvent(e model.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: event %d has no title", ErrInvalidCatalog, e.ID)
	}
	if !e.Price.IsPositive() {
		return fmt.Errorf("%w: event %d price must be positive, got %s", ErrInvalidCatalog, e.ID, e.Price)
	}
	seen := make(map[int]struct{}, len(e.Venues))
	for _, v := range e.Venues {
		if _, dup := seen[v.ID]; dup {
			return fmt.Errorf("%w: event %d has duplicate venue id %d", ErrInvalidCatalog, e.ID, v.ID)
		}
		seen[v.ID] = struct{}{}
	}
	return nil
}

// LoadEventRepo reads a JSON array of events from path and builds the
// catalog.  An empty path selects the catalog embedded in the binary.
func LoadEventRepo(path string) (*EventRepo, error) {
	raw := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		raw = b
	}
	var events []model.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return NewEventRepo(events)
}

// List returns the events whose category equals category exactly.  An
// empty category or CategoryAll returns the whole catalog.  The result is
// never nil and keeps catalog order.
func (r *EventRepo) List(_ context.Context, category string) []model.Event {
	out := make([]model.Event, 0, len(r.events))
	for _, e := range r.events {
		if category != "" && category != CategoryAll && e.Category != category {
			continue
		}
		out = append(out, e.Clone())
	}
	return out
}

// GetByID returns the event with the given id or ErrEventNotFound.
func (r *EventRepo) GetByID(_ context.Context, id int) (model.Event, error) {
	idx, ok := r.byID[id]
	if !ok {
		return model.Event{}, ErrEventNotFound
	}
	return r.events[idx].Clone(), nil
}

// Count returns the number of events in the catalog.
func (r *EventRepo) Count() int { return len(r.events) }
