package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/event"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/lineup"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/match"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/logging"
)

const (
	defaultWarmWorkers = 4
	maxWarmWorkers     = 32

	warmStatusSuccess = "success"
	warmStatusFailed  = "failed"
)

type WarmCacheInput struct {
	CompetitionID int64
	SeasonID      int64
	Limit         int
}

type WarmCacheTaskResult struct {
	MatchID    int64
	Status     string
	Events     int
	Lineups    int
	Message    string
	DurationMs int64
}

type WarmCacheResult struct {
	CompetitionID int64
	SeasonID      int64
	Matches       int
	SuccessCount  int
	FailedCount   int
	Tasks         []WarmCacheTaskResult
}

// CacheWarmService preloads the events and lineups of a season so later
// narrative requests hit the cache.
type CacheWarmService struct {
	matchRepo  match.Repository
	eventRepo  event.Repository
	lineupRepo lineup.Repository
	workers    int
	logger     *logging.Logger
}

func NewCacheWarmService(
	matchRepo match.Repository,
	eventRepo event.Repository,
	lineupRepo lineup.Repository,
	workers int,
	logger *logging.Logger,
) *CacheWarmService {
	if logger == nil {
		logger = logging.Default()
	}
	switch {
	case workers <= 0:
		workers = defaultWarmWorkers
	case workers > maxWarmWorkers:
		workers = maxWarmWorkers
	}
	return &CacheWarmService{
		matchRepo:  matchRepo,
		eventRepo:  eventRepo,
		lineupRepo: lineupRepo,
		workers:    workers,
		logger:     logger,
	}
}

func (s *CacheWarmService) WarmSeason(ctx context.Context, input WarmCacheInput) (WarmCacheResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CacheWarmService.WarmSeason")
	defer span.End()

	if input.CompetitionID <= 0 || input.SeasonID <= 0 {
		return WarmCacheResult{}, invalidInput("competition id and season id must be greater than zero")
	}
	if input.Limit < 0 {
		return WarmCacheResult{}, invalidInput("limit must not be negative")
	}

	matches, err := s.matchRepo.ListBySeason(ctx, input.CompetitionID, input.SeasonID)
	if err != nil {
		return WarmCacheResult{}, fmt.Errorf("list matches competition=%d season=%d: %w", input.CompetitionID, input.SeasonID, err)
	}
	if input.Limit > 0 && len(matches) > input.Limit {
		matches = matches[:input.Limit]
	}

	result := WarmCacheResult{
		CompetitionID: input.CompetitionID,
		SeasonID:      input.SeasonID,
		Matches:       len(matches),
	}
	if len(matches) == 0 {
		return result, nil
	}

	results := make(chan WarmCacheTaskResult, len(matches))
	var successCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return WarmCacheResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, item := range matches {
		matchID := item.ID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := s.warmMatch(ctx, matchID)
			if row.Status == warmStatusSuccess {
				successCount.Add(1)
			} else {
				failedCount.Add(1)
			}
			results <- row
		}); err != nil {
			workers.Done()
			return WarmCacheResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool { return result.Tasks[i].MatchID < result.Tasks[j].MatchID })

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	s.logger.InfoContext(ctx, "cache warm finished",
		"competition_id", input.CompetitionID,
		"season_id", input.SeasonID,
		"matches", result.Matches,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

func (s *CacheWarmService) warmMatch(ctx context.Context, matchID int64) WarmCacheTaskResult {
	start := time.Now()
	row := WarmCacheTaskResult{MatchID: matchID, Status: warmStatusSuccess}

	items, err := s.eventRepo.ListByMatch(ctx, matchID)
	if err != nil {
		row.Status = warmStatusFailed
		row.Message = fmt.Sprintf("events: %v", err)
		row.DurationMs = time.Since(start).Milliseconds()
		return row
	}
	row.Events = len(items)

	lineups, err := s.lineupRepo.ListByMatch(ctx, matchID)
	if err != nil {
		row.Status = warmStatusFailed
		row.Message = fmt.Sprintf("lineups: %v", err)
		row.DurationMs = time.Since(start).Milliseconds()
		return row
	}
	row.Lineups = len(lineups)
	row.DurationMs = time.Since(start).Milliseconds()
	return row
}
