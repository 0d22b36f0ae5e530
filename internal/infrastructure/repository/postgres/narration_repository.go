package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/narrative"
	qb "github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/querybuilder"
)

const narrationsTable = "narrations"

var narrationSelectColumns = []string{
	"id",
	"match_id",
	"player_id",
	"kind",
	"style",
	"body",
	"provider",
	"fallback",
	"events_summary",
	"generated_at",
}

// NarrationRepository archives generated narrations in Postgres.
type NarrationRepository struct {
	db *sqlx.DB
}

func NewNarrationRepository(db *sqlx.DB) *NarrationRepository {
	return &NarrationRepository{db: db}
}

func (r *NarrationRepository) Create(ctx context.Context, item narrative.Narration) error {
	query, args, err := qb.InsertModel(narrationsTable, narrationToRow(item), "")
	if err != nil {
		return fmt.Errorf("build insert narration query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert narration id=%s: duplicate id: %w", item.ID, err)
		}
		return fmt.Errorf("insert narration id=%s match_id=%d: %w", item.ID, item.MatchID, err)
	}
	return nil
}

func (r *NarrationRepository) ListByMatch(ctx context.Context, matchID int64, limit int) ([]narrative.Narration, error) {
	builder := qb.Select(narrationSelectColumns...).
		From(narrationsTable).
		Where(qb.Eq("match_id", matchID)).
		OrderBy("generated_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select narrations query: %w", err)
	}

	var rows []narrationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select narrations match_id=%d: %w", matchID, err)
	}

	out := make([]narrative.Narration, 0, len(rows))
	for _, row := range rows {
		out = append(out, narrationFromRow(row))
	}
	return out, nil
}

func narrationToRow(item narrative.Narration) narrationTableModel {
	return narrationTableModel{
		ID:            item.ID,
		MatchID:       item.MatchID,
		PlayerID:      nullableInt64(item.PlayerID),
		Kind:          string(item.Kind),
		Style:         string(item.Style),
		Body:          item.Text,
		Provider:      item.Provider,
		Fallback:      item.Fallback,
		EventsSummary: item.EventsSummary,
		GeneratedAt:   item.GeneratedAt.UTC(),
	}
}

func narrationFromRow(row narrationTableModel) narrative.Narration {
	return narrative.Narration{
		ID:            row.ID,
		MatchID:       row.MatchID,
		PlayerID:      nullInt64Value(row.PlayerID),
		Kind:          narrative.Kind(row.Kind),
		Style:         narrative.Style(row.Style),
		Text:          row.Body,
		Provider:      row.Provider,
		Fallback:      row.Fallback,
		EventsSummary: row.EventsSummary,
		GeneratedAt:   row.GeneratedAt,
	}
}
