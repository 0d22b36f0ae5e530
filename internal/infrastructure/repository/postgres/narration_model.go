package postgres

import (
	"database/sql"
	"time"
)

type narrationTableModel struct {
	ID            string        `db:"id"`
	MatchID       int64         `db:"match_id"`
	PlayerID      sql.NullInt64 `db:"player_id"`
	Kind          string        `db:"kind"`
	Style         string        `db:"style"`
	Body          string        `db:"body"`
	Provider      string        `db:"provider"`
	Fallback      bool          `db:"fallback"`
	EventsSummary string        `db:"events_summary"`
	GeneratedAt   time.Time     `db:"generated_at"`
}
