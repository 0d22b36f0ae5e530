package memory

import (
	"context"
	"sync"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/event"
)

type EventRepository struct {
	mu    sync.RWMutex
	items map[int64][]event.Event
}

func NewEventRepository(items map[int64][]event.Event) *EventRepository {
	repo := &EventRepository{items: make(map[int64][]event.Event, len(items))}
	for matchID, events := range items {
		copied := append([]event.Event(nil), events...)
		event.SortChronologically(copied)
		repo.items[matchID] = copied
	}
	return repo
}

func (r *EventRepository) ListByMatch(_ context.Context, matchID int64) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]event.Event(nil), r.items[matchID]...), nil
}
