// Package persona derives the conversational signals the cache layer
// stores: mood transitions, detected jokes, respect deltas and mode-change
// hints, all from plain keyword analysis of user input.
package persona

import (
	"fmt"
	"strings"

	"github.com/kyartuvzgo/kyartu-bot/internal/models"
	"github.com/sirupsen/logrus"
)

// Analyzer inspects user messages for persona signals
type Analyzer struct {
	logger *logrus.Logger
}

// NewAnalyzer creates an analyzer
func NewAnalyzer(logger *logrus.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

var moodKeywords = map[string][]string{
	models.MoodHappy:    {"haha", "lol", "nice", "great", "love it", "awesome", "ապրես"},
	models.MoodAnnoyed:  {"whatever", "boring", "stop", "annoying", "shut up"},
	models.MoodHyped:    {"let's go", "party", "wedding", "khorovats", "bratan", "ara"},
	models.MoodRomantic: {"beautiful", "date", "cute", "miss you", "jan", "sirun"},
	models.MoodOffended: {"ugly", "stupid", "loser", "hate you", "trash"},
}

// AnalyzeMood classifies the message into the mood enum. Returns the
// current mood unchanged when no keyword matches.
func (a *Analyzer) AnalyzeMood(text, currentMood string) string {
	lower := strings.ToLower(text)
	for mood, words := range moodKeywords {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return mood
			}
		}
	}
	if models.IsValidMood(currentMood) {
		return currentMood
	}
	return models.MoodNeutral
}

var jokeMarkers = []string{"joke", "funny", "knock knock", "haha", "lmao", "anekdot"}

// DetectJoke reports whether the message looks like the user telling a
// joke, returning the joke text when it does.
func (a *Analyzer) DetectJoke(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, marker := range jokeMarkers {
		if strings.Contains(lower, marker) {
			return strings.TrimSpace(text), true
		}
	}
	return "", false
}

// RespectDelta derives a respect adjustment from the message content.
func (a *Analyzer) RespectDelta(text string) float64 {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, "respect", "thank", "ապրես", "bratan jan", "legend"):
		return 0.2
	case containsAny(lower, "stupid", "trash", "hate you", "loser", "shut up"):
		return -0.3
	case containsAny(lower, "haha", "lol", "lmao"):
		return 0.1
	}
	return 0
}

var modeHints = map[string][]string{
	models.ModeFlirt:  {"flirt", "single", "date me", "sirun jan"},
	models.ModeRoast:  {"roast me", "insult me", "destroy me"},
	models.ModeWisdom: {"advice", "what should i do", "life question"},
	models.ModeHype:   {"hype me", "motivate", "gym", "let's go"},
}

// SuggestMode returns a mode-changing hint from the message, or the
// current mode when nothing suggests a transition.
func (a *Analyzer) SuggestMode(text, currentMode string) string {
	lower := strings.ToLower(text)
	for mode, words := range modeHints {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return mode
			}
		}
	}
	if models.IsValidMode(currentMode) {
		return currentMode
	}
	return models.ModeDefault
}

var searchHints = []string{"search", "look up", "google", "what is the", "who is", "latest", "news about", "recipe"}

// WantsSearch reports whether the message looks like a lookup the bot
// should answer with web results.
func (a *Analyzer) WantsSearch(text string) bool {
	return containsAny(strings.ToLower(text), searchHints...)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

var modeDirectives = map[string]string{
	models.ModeDefault: "Stay in your usual cocky, streetwise register.",
	models.ModeFlirt:   "You are in flirt mode: over-the-top romantic, constantly complimenting, calling the user jan.",
	models.ModeRoast:   "You are in roast mode: relentlessly mock the user, but keep it playful.",
	models.ModeWisdom:  "You are in wisdom mode: dispense dramatic life advice like an old uncle at a wedding table.",
	models.ModeHype:    "You are in hype mode: scream encouragement, everything is THE BEST.",
}

// BuildSystemPrompt assembles the persona system message from the base
// prompt, the session mode and the user's stored respect, mood and
// preferences.
func BuildSystemPrompt(base string, state *models.SessionState, respect *models.RespectMeter, mood *models.MoodMeter, prefs *models.UserPreferences) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\n")

	if directive, ok := modeDirectives[state.CurrentMode]; ok {
		b.WriteString(directive)
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("Your current respect for this user is %.1f out of 5. ", respect.RespectScore))
	switch {
	case respect.RespectScore >= 4:
		b.WriteString("Treat them like family.\n")
	case respect.RespectScore <= 1.5:
		b.WriteString("Barely tolerate them.\n")
	default:
		b.WriteString("Treat them like an acquaintance from the neighborhood.\n")
	}

	b.WriteString(fmt.Sprintf("Your current mood toward them is %q.\n", mood.LastMood))

	if prefs.FlirtMode {
		b.WriteString("The user has enabled flirt mode; lean into it.\n")
	}
	if prefs.CensorMode {
		b.WriteString("Keep the language clean, no profanity.\n")
	}
	b.WriteString(fmt.Sprintf("Roast intensity setting: %d out of 5.\n", prefs.RoastLevel))

	return b.String()
}
