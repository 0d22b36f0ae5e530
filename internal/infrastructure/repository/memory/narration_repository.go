package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/narrative"
)

// NarrationRepository keeps a bounded archive per match.
type NarrationRepository struct {
	mu       sync.RWMutex
	items    map[int64][]narrative.Narration
	maxPerID int
}

func NewNarrationRepository(maxPerMatch int) *NarrationRepository {
	if maxPerMatch <= 0 {
		maxPerMatch = 100
	}
	return &NarrationRepository{items: make(map[int64][]narrative.Narration), maxPerID: maxPerMatch}
}

func (r *NarrationRepository) Create(_ context.Context, item narrative.Narration) error {
	if strings.TrimSpace(item.ID) == "" {
		return fmt.Errorf("narration id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rows := append(r.items[item.MatchID], item)
	if len(rows) > r.maxPerID {
		rows = append([]narrative.Narration(nil), rows[len(rows)-r.maxPerID:]...)
	}
	r.items[item.MatchID] = rows
	return nil
}

// ListByMatch returns the newest narrations first.
func (r *NarrationRepository) ListByMatch(_ context.Context, matchID int64, limit int) ([]narrative.Narration, error) {
	r.mu.RLock()
	out := append([]narrative.Narration(nil), r.items[matchID]...)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GeneratedAt.After(out[j].GeneratedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
