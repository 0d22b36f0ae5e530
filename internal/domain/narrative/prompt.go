package narrative

import (
	"strconv"
	"strings"

	"github.com/valyala/bytebufferpool"

	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/match"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/playerstats"
	"github.com/GiovanoMP/at-des-data-driven-apps/internal/domain/teamstats"
)

const (
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.7
	maxChatHistory     = 10
)

// Settings carries the sampling parameters copied into every prompt.
type Settings struct {
	MaxTokens   int
	Temperature float64
}

func (s Settings) normalize() Settings {
	if s.MaxTokens <= 0 {
		s.MaxTokens = DefaultMaxTokens
	}
	if s.Temperature < 0 || s.Temperature > 2 {
		s.Temperature = DefaultTemperature
	}
	return s
}

const (
	matchSystemPrompt  = "You are a sports commentator specialised in football."
	playerSystemPrompt = "You are a football analyst specialised in individual player performance."
	chatSystemPrompt   = "You are a football match assistant. Answer only with facts from the match context; say so when the context does not cover the question."
)

var styleInstructions = map[Style]struct{ intro, outro string }{
	StyleFormal: {
		intro: "Act as a professional, formal sports commentator. Write a detailed and objective narration of the match based on this summary:",
		outro: "Keep a professional tone and focus on the technical and tactical side of the game.",
	},
	StyleHumorous: {
		intro: "Act as a light-hearted, funny sports commentator. Write an entertaining narration of the match based on this summary:",
		outro: "Use playful metaphors and puns while keeping the facts right.",
	},
	StyleTechnical: {
		intro: "Act as a technical football analyst. Write an in-depth analysis of the match based on this summary:",
		outro: "Focus on tactics, formations, statistics and key technical decisions.",
	},
}

// FormatMatchSummary renders the key events and team numbers as plain text.
func FormatMatchSummary(summary match.Summary, teams []teamstats.Stats) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	m := summary.Match
	writeLine(buf, "Match: "+m.Title())
	writeLine(buf, "Score: "+m.Score())
	if !m.Date.IsZero() {
		writeLine(buf, "Date: "+m.Date.Format("2006-01-02"))
	}
	if m.Stadium != "" {
		writeLine(buf, "Stadium: "+m.Stadium)
	}
	if m.CompetitionName != "" {
		writeLine(buf, "Competition: "+strings.TrimSpace(m.CompetitionName+" "+m.SeasonName))
	}

	writeLine(buf, "")
	writeLine(buf, "Goals:")
	if len(summary.Goals) == 0 {
		writeLine(buf, "- none")
	}
	for _, goal := range summary.Goals {
		line := "- " + minute(goal.Minute) + " " + goal.Scorer + " (" + goal.Team + ")"
		if goal.OwnGoal {
			line += " own goal"
		}
		if goal.Assist != "" {
			line += " assisted by " + goal.Assist
		}
		writeLine(buf, line)
	}

	writeLine(buf, "")
	writeLine(buf, "Cards:")
	if len(summary.Cards) == 0 {
		writeLine(buf, "- none")
	}
	for _, card := range summary.Cards {
		writeLine(buf, "- "+minute(card.Minute)+" "+card.Player+" ("+card.Team+") "+card.CardType)
	}

	writeLine(buf, "")
	writeLine(buf, "Substitutions:")
	if len(summary.Substitutions) == 0 {
		writeLine(buf, "- none")
	}
	for _, sub := range summary.Substitutions {
		writeLine(buf, "- "+minute(sub.Minute)+" "+sub.Team+": "+sub.PlayerOut+" off, "+sub.PlayerIn+" on")
	}

	if len(summary.Shootout) > 0 {
		home, away := summary.ShootoutScore()
		writeLine(buf, "")
		writeLine(buf, "Penalty shootout: "+strconv.Itoa(home)+"-"+strconv.Itoa(away))
		for _, kick := range summary.Shootout {
			result := "missed"
			if kick.Scored {
				result = "scored"
			}
			writeLine(buf, "- "+strconv.Itoa(kick.Order)+". "+kick.Player+" ("+kick.Team+") "+result)
		}
	}

	if len(teams) > 0 {
		writeLine(buf, "")
		writeLine(buf, "Team statistics:")
		for _, team := range teams {
			writeLine(buf, "- "+team.TeamName+
				": possession "+formatFloat(team.Possession)+"%"+
				", passes "+strconv.Itoa(team.PassesCompleted)+"/"+strconv.Itoa(team.Passes)+
				", shots "+strconv.Itoa(team.Shots)+" ("+strconv.Itoa(team.ShotsOnTarget)+" on target)"+
				", xG "+formatFloat(team.ExpectedGoals)+
				", fouls "+strconv.Itoa(team.Fouls))
		}
	}

	return strings.TrimSpace(buf.String())
}

// BuildMatchPrompt wraps the formatted summary in the instructions of style.
func BuildMatchPrompt(style Style, summary match.Summary, teams []teamstats.Stats, settings Settings) Prompt {
	instr, ok := styleInstructions[style]
	if !ok {
		instr = styleInstructions[StyleFormal]
	}
	settings = settings.normalize()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	writeLine(buf, instr.intro)
	writeLine(buf, "")
	writeLine(buf, FormatMatchSummary(summary, teams))
	writeLine(buf, "")
	writeLine(buf, instr.outro)

	return Prompt{
		System:      matchSystemPrompt,
		User:        strings.TrimSpace(buf.String()),
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
	}
}

// FormatPlayerStats renders the statistics block of a player.
func FormatPlayerStats(stats playerstats.Stats) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	writeLine(buf, "- Passes: "+strconv.Itoa(stats.Passes.Total)+" (completed "+strconv.Itoa(stats.Passes.Successful)+", accuracy "+formatFloat(stats.Passes.Accuracy)+"%)")
	writeLine(buf, "- Key passes: "+strconv.Itoa(stats.Passes.KeyPasses)+", assists: "+strconv.Itoa(stats.Assists))
	writeLine(buf, "- Shots: "+strconv.Itoa(stats.Shots.Total)+" (on target "+strconv.Itoa(stats.Shots.OnTarget)+", goals "+strconv.Itoa(stats.Shots.Goals)+", xG "+formatFloat(stats.Shots.ExpectedGoals)+")")
	writeLine(buf, "- Tackles: "+strconv.Itoa(stats.Tackles.Total)+" (won "+strconv.Itoa(stats.Tackles.Successful)+")")
	writeLine(buf, "- Interceptions: "+strconv.Itoa(stats.Interceptions))
	writeLine(buf, "- Cards: "+strconv.Itoa(stats.Cards.Yellow)+" yellow, "+strconv.Itoa(stats.Cards.Red)+" red")
	writeLine(buf, "- Minutes played: "+strconv.Itoa(stats.MinutesPlayed))
	return strings.TrimSpace(buf.String())
}

// BuildPlayerPrompt asks for an individual performance analysis.
func BuildPlayerPrompt(stats playerstats.Stats, position string, m match.Match, settings Settings) Prompt {
	settings = settings.normalize()

	who := stats.PlayerName
	if stats.TeamName != "" {
		who += " (" + stats.TeamName + ")"
	}
	if position != "" {
		who += ", " + position
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	writeLine(buf, "Act as a technical analyst focused on individual players.")
	writeLine(buf, "Analyse the performance of "+who+" in "+m.Title()+" ("+m.Score()+") using these statistics:")
	writeLine(buf, "")
	writeLine(buf, FormatPlayerStats(stats))
	writeLine(buf, "")
	writeLine(buf, "Consider:")
	writeLine(buf, "1. Passing and finishing efficiency")
	writeLine(buf, "2. Defensive contribution")
	writeLine(buf, "3. Strengths and areas to improve")
	writeLine(buf, "4. Overall impact on the match")

	return Prompt{
		System:      playerSystemPrompt,
		User:        strings.TrimSpace(buf.String()),
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
	}
}

// BuildChatPrompt answers question with the match context. Only the latest
// history turns are kept.
func BuildChatPrompt(summary match.Summary, teams []teamstats.Stats, question string, history []Message, settings Settings) Prompt {
	settings = settings.normalize()

	if len(history) > maxChatHistory {
		history = history[len(history)-maxChatHistory:]
	}
	kept := make([]Message, 0, len(history))
	for _, msg := range history {
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		if msg.Role != RoleAssistant {
			msg.Role = RoleUser
		}
		kept = append(kept, msg)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	writeLine(buf, chatSystemPrompt)
	writeLine(buf, "")
	writeLine(buf, "Match context:")
	writeLine(buf, FormatMatchSummary(summary, teams))

	return Prompt{
		System:      strings.TrimSpace(buf.String()),
		User:        strings.TrimSpace(question),
		History:     kept,
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
	}
}

func writeLine(buf *bytebufferpool.ByteBuffer, line string) {
	_, _ = buf.WriteString(line)
	_ = buf.WriteByte('\n')
}

func minute(value int) string {
	return strconv.Itoa(value) + "'"
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
