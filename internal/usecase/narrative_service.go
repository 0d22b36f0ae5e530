package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/narrative"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/id"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/platform/logging"
)

const (
	defaultNarrationListLimit = 20
	maxNarrationListLimit     = 100
	maxChatQuestionLength     = 1000

	generationOutcomeSuccess = "success"
	generationOutcomeError   = "error"
	generationOutcomeEmpty   = "empty"
)

// TextGenerator is one LLM provider.
type TextGenerator interface {
	Name() string
	Generate(ctx context.Context, prompt narrative.Prompt) (string, error)
}

// GenerationRecorder observes every provider attempt.
type GenerationRecorder interface {
	ObserveGeneration(provider string, kind narrative.Kind, outcome string, elapsed time.Duration)
}

type noopGenerationRecorder struct{}

func (noopGenerationRecorder) ObserveGeneration(string, narrative.Kind, string, time.Duration) {}

type ChatInput struct {
	Question string
	History  []narrative.Message
}

type PlayerAnalysis struct {
	Profile   PlayerProfile
	Narration narrative.Narration
}

type NarrativeServiceConfig struct {
	Settings narrative.Settings
	Recorder GenerationRecorder
	Logger   *logging.Logger
}

type NarrativeService struct {
	matches    *MatchService
	players    *PlayerService
	generators []TextGenerator
	repo       narrative.Repository
	ids        id.Generator
	settings   narrative.Settings
	recorder   GenerationRecorder
	logger     *logging.Logger
	now        func() time.Time
}

func NewNarrativeService(
	matches *MatchService,
	players *PlayerService,
	generators []TextGenerator,
	repo narrative.Repository,
	ids id.Generator,
	cfg NarrativeServiceConfig,
) *NarrativeService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = noopGenerationRecorder{}
	}
	return &NarrativeService{
		matches:    matches,
		players:    players,
		generators: append([]TextGenerator(nil), generators...),
		repo:       repo,
		ids:        ids,
		settings:   cfg.Settings,
		recorder:   recorder,
		logger:     logger,
		now:        time.Now,
	}
}

// MatchNarrative narrates a match in style. Provider failures never surface:
// the placeholder text is returned with Fallback set.
func (s *NarrativeService) MatchNarrative(ctx context.Context, matchID int64, style narrative.Style) (narrative.Narration, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NarrativeService.MatchNarrative",
		attribute.Int64("match.id", matchID),
		attribute.String("narrative.style", string(style)),
	)
	defer span.End()

	style, err := narrative.ParseStyle(string(style))
	if err != nil {
		return narrative.Narration{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	summary, err := s.matches.GetSummary(ctx, matchID)
	if err != nil {
		return narrative.Narration{}, err
	}

	prompt := narrative.BuildMatchPrompt(style, summary.Summary, summary.Teams, s.settings)
	item := s.generate(ctx, narrative.KindMatch, prompt)
	item.MatchID = matchID
	item.Style = style
	item.EventsSummary = narrative.FormatMatchSummary(summary.Summary, summary.Teams)

	s.archive(ctx, &item)
	return item, nil
}

// MatchAnalysis is the technical narration of a match.
func (s *NarrativeService) MatchAnalysis(ctx context.Context, matchID int64) (narrative.Narration, error) {
	return s.MatchNarrative(ctx, matchID, narrative.StyleTechnical)
}

func (s *NarrativeService) PlayerAnalysis(ctx context.Context, matchID, playerID int64) (PlayerAnalysis, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NarrativeService.PlayerAnalysis",
		attribute.Int64("match.id", matchID),
		attribute.Int64("player.id", playerID),
	)
	defer span.End()

	profile, err := s.players.GetProfile(ctx, matchID, playerID)
	if err != nil {
		return PlayerAnalysis{}, err
	}

	prompt := narrative.BuildPlayerPrompt(profile.Stats, profile.Position, profile.Match, s.settings)
	item := s.generate(ctx, narrative.KindPlayer, prompt)
	item.MatchID = matchID
	item.PlayerID = playerID
	item.Style = narrative.StyleTechnical
	item.EventsSummary = narrative.FormatPlayerStats(profile.Stats)

	s.archive(ctx, &item)
	return PlayerAnalysis{Profile: profile, Narration: item}, nil
}

// Chat answers a question about a match using its key events as context.
func (s *NarrativeService) Chat(ctx context.Context, matchID int64, input ChatInput) (narrative.Narration, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NarrativeService.Chat", attribute.Int64("match.id", matchID))
	defer span.End()

	question := strings.TrimSpace(input.Question)
	if question == "" {
		return narrative.Narration{}, invalidInput("question is required")
	}
	if len(question) > maxChatQuestionLength {
		return narrative.Narration{}, invalidInput("question must be at most %d characters", maxChatQuestionLength)
	}

	summary, err := s.matches.GetSummary(ctx, matchID)
	if err != nil {
		return narrative.Narration{}, err
	}

	prompt := narrative.BuildChatPrompt(summary.Summary, summary.Teams, question, input.History, s.settings)
	item := s.generate(ctx, narrative.KindChat, prompt)
	item.MatchID = matchID
	item.EventsSummary = question
	return item, nil
}

func (s *NarrativeService) ListNarrations(ctx context.Context, matchID int64, limit int) ([]narrative.Narration, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NarrativeService.ListNarrations", attribute.Int64("match.id", matchID))
	defer span.End()

	if matchID <= 0 {
		return nil, invalidInput("match id must be greater than zero")
	}
	switch {
	case limit < 0:
		return nil, invalidInput("limit must be greater than zero")
	case limit == 0:
		limit = defaultNarrationListLimit
	case limit > maxNarrationListLimit:
		limit = maxNarrationListLimit
	}

	items, err := s.repo.ListByMatch(ctx, matchID, limit)
	if err != nil {
		return nil, fmt.Errorf("list narrations match=%d: %w", matchID, err)
	}
	return items, nil
}

// generate tries each provider in order and falls back to the placeholder.
func (s *NarrativeService) generate(ctx context.Context, kind narrative.Kind, prompt narrative.Prompt) narrative.Narration {
	item := narrative.Narration{Kind: kind, GeneratedAt: s.now().UTC()}

	var failures []error
	for _, generator := range s.generators {
		if ctx.Err() != nil {
			failures = append(failures, ctx.Err())
			break
		}

		started := time.Now()
		text, err := generator.Generate(ctx, prompt)
		elapsed := time.Since(started)
		text = strings.TrimSpace(text)

		switch {
		case err != nil:
			s.recorder.ObserveGeneration(generator.Name(), kind, generationOutcomeError, elapsed)
			failures = append(failures, fmt.Errorf("%s: %w", generator.Name(), err))
			s.logger.WarnContext(ctx, "narrative provider failed",
				"provider", generator.Name(),
				"kind", string(kind),
				"error", err,
			)
			continue
		case text == "":
			s.recorder.ObserveGeneration(generator.Name(), kind, generationOutcomeEmpty, elapsed)
			failures = append(failures, fmt.Errorf("%s: empty completion", generator.Name()))
			continue
		}

		s.recorder.ObserveGeneration(generator.Name(), kind, generationOutcomeSuccess, elapsed)
		item.Text = text
		item.Provider = generator.Name()
		return item
	}

	if len(s.generators) == 0 {
		failures = append(failures, errors.New("no narrative provider configured"))
	}
	s.logger.ErrorContext(ctx, "narrative generation fell back to placeholder",
		"kind", string(kind),
		"error", errors.Join(failures...),
	)
	item.Text = narrative.Placeholder(kind)
	item.Fallback = true
	return item
}

// archive stores the narration; archive failures are logged, not returned.
func (s *NarrativeService) archive(ctx context.Context, item *narrative.Narration) {
	if s.repo == nil {
		return
	}
	if s.ids != nil {
		narrationID, err := s.ids.NewID()
		if err != nil {
			s.logger.WarnContext(ctx, "generate narration id failed", "error", err)
			return
		}
		item.ID = narrationID
	}
	if err := s.repo.Create(ctx, *item); err != nil {
		s.logger.WarnContext(ctx, "archive narration failed", "match_id", item.MatchID, "error", err)
	}
}
