package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/narrative"
	qb "github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/querybuilder"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches wrapped unique violation", func(t *testing.T) {
		err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for unique violation")
		}
	})

	t.Run("ignores other pq errors", func(t *testing.T) {
		if isUniqueViolation(&pq.Error{Code: "42P01"}) {
			t.Fatalf("expected false for undefined table")
		}
	})

	t.Run("ignores plain errors", func(t *testing.T) {
		if isUniqueViolation(sql.ErrNoRows) {
			t.Fatalf("expected false for sql.ErrNoRows")
		}
	})
}

func TestNullableInt64(t *testing.T) {
	if got := nullableInt64(0); got.Valid {
		t.Fatalf("expected null for zero")
	}
	if got := nullInt64Value(nullableInt64(7024)); got != 7024 {
		t.Fatalf("expected 7024, got %d", got)
	}
	if got := nullInt64Value(sql.NullInt64{}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestNarrationRowRoundTrip(t *testing.T) {
	generatedAt := time.Date(2021, 6, 11, 23, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	item := narrative.Narration{
		ID:          "0190c7b4-0000-7000-8000-000000000001",
		MatchID:     3788741,
		Kind:        narrative.KindMatch,
		Style:       narrative.StyleFormal,
		Text:        "Italy opened the tournament with a 3-0 win.",
		Provider:    "openai",
		GeneratedAt: generatedAt,
	}

	row := narrationToRow(item)
	if row.PlayerID.Valid || row.GeneratedAt.Location() != time.UTC || row.Body != item.Text {
		t.Fatalf("unexpected row: %+v", row)
	}

	got := narrationFromRow(row)
	if got.ID != item.ID || got.Kind != narrative.KindMatch || !got.GeneratedAt.Equal(generatedAt) {
		t.Fatalf("unexpected narration: %+v", got)
	}
}

func TestNarrationInsertQuery(t *testing.T) {
	query, args, err := qb.InsertModel(narrationsTable, narrationToRow(narrative.Narration{ID: "n1", MatchID: 1}), "")
	if err != nil {
		t.Fatalf("build insert: %v", err)
	}
	if !strings.HasPrefix(query, "INSERT INTO narrations (id, match_id, player_id, kind, style, body") {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != len(narrationSelectColumns) {
		t.Fatalf("expected %d args, got %d", len(narrationSelectColumns), len(args))
	}
}
