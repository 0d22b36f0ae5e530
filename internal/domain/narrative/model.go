package narrative

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidStyle = errors.New("invalid narrative style")

type Style string

const (
	StyleFormal    Style = "formal"
	StyleHumorous  Style = "humorous"
	StyleTechnical Style = "technical"
)

var styleAliases = map[string]Style{
	"formal":      StyleFormal,
	"humorous":    StyleHumorous,
	"humoristico": StyleHumorous,
	"humorístico": StyleHumorous,
	"technical":   StyleTechnical,
	"tecnico":     StyleTechnical,
	"técnico":     StyleTechnical,
}

// Styles lists the accepted styles in display order.
func Styles() []Style {
	return []Style{StyleFormal, StyleHumorous, StyleTechnical}
}

// ParseStyle accepts any case and the localized aliases; empty means formal.
func ParseStyle(value string) (Style, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return StyleFormal, nil
	}
	style, ok := styleAliases[value]
	if !ok {
		return "", fmt.Errorf("%w: %q (allowed: formal, humorous, technical)", ErrInvalidStyle, value)
	}
	return style, nil
}

type Kind string

const (
	KindMatch  Kind = "match"
	KindPlayer Kind = "player"
	KindChat   Kind = "chat"
)

const (
	MatchPlaceholder  = "Unable to generate the match narrative."
	PlayerPlaceholder = "Unable to generate the player analysis."
	ChatPlaceholder   = "Unable to answer right now. Please try again later."
)

// Placeholder is the text served when no provider could generate one.
func Placeholder(kind Kind) string {
	switch kind {
	case KindPlayer:
		return PlayerPlaceholder
	case KindChat:
		return ChatPlaceholder
	default:
		return MatchPlaceholder
	}
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Prompt is a provider-neutral generation request.
type Prompt struct {
	System      string
	User        string
	History     []Message
	MaxTokens   int
	Temperature float64
}

// Narration is one generated text, archived per match.
type Narration struct {
	ID            string
	MatchID       int64
	PlayerID      int64
	Kind          Kind
	Style         Style
	Text          string
	Provider      string
	Fallback      bool
	EventsSummary string
	GeneratedAt   time.Time
}
