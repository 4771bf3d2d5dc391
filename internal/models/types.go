package models

import "time"

// Conversation modes the bot can be in. SessionState.CurrentMode is always
// one of these.
const (
	ModeDefault = "default"
	ModeFlirt   = "flirt"
	ModeRoast   = "roast"
	ModeWisdom  = "wisdom"
	ModeHype    = "hype"
)

// ValidModes lists every conversation mode.
var ValidModes = []string{ModeDefault, ModeFlirt, ModeRoast, ModeWisdom, ModeHype}

// IsValidMode reports whether mode belongs to the mode enum.
func IsValidMode(mode string) bool {
	for _, m := range ValidModes {
		if m == mode {
			return true
		}
	}
	return false
}

// Moods the bot tracks per user. MoodMeter.LastMood is always one of these.
const (
	MoodNeutral  = "neutral"
	MoodHappy    = "happy"
	MoodAnnoyed  = "annoyed"
	MoodHyped    = "hyped"
	MoodRomantic = "romantic"
	MoodOffended = "offended"
)

// ValidMoods lists every mood.
var ValidMoods = []string{MoodNeutral, MoodHappy, MoodAnnoyed, MoodHyped, MoodRomantic, MoodOffended}

// IsValidMood reports whether mood belongs to the mood enum.
func IsValidMood(mood string) bool {
	for _, m := range ValidMoods {
		if m == mood {
			return true
		}
	}
	return false
}

// Respect score bounds and default. The UI maps the stored score onto a
// 0-100 meter by multiplying by RespectDisplayFactor.
const (
	RespectMin           = 0.0
	RespectMax           = 5.0
	RespectDefault       = 3.0
	RespectDisplayFactor = 20.0
)

// MaxJokes is the joke bank capacity, most-recent-first.
const MaxJokes = 10

// Reaction is a single emoji reaction on a message.
type Reaction struct {
	Emoji  string `json:"emoji"`
	UserID string `json:"userId"`
}

// Message is one chat message.
type Message struct {
	ID        string     `json:"id"`
	Role      string     `json:"role"` // "user", "assistant" or "system"
	Content   string     `json:"content"`
	Timestamp string     `json:"timestamp"` // RFC 3339
	Mood      string     `json:"mood,omitempty"`
	Reactions []Reaction `json:"reactions,omitempty"`
}

// ChatHistorySnapshot is the whole conversation for a session, replaced
// wholesale on every exchange. Messages and Timestamps stay the same length.
type ChatHistorySnapshot struct {
	Messages    []Message `json:"messages"`
	Timestamps  []int64   `json:"timestamps"` // epoch ms, parallel to Messages
	LastUpdated int64     `json:"lastUpdated"`
}

// SessionState is the per-session conversational state.
type SessionState struct {
	CurrentMode string                 `json:"currentMode"`
	LastPage    string                 `json:"lastPage"`
	JoinedAt    int64                  `json:"joinedAt"`
	Extra       map[string]interface{} `json:"extra,omitempty"`
}

// RespectMeter tracks how much respect the bot has for a user.
// Score is clamped to [RespectMin, RespectMax] before every write.
type RespectMeter struct {
	RespectScore float64   `json:"respectScore"`
	LastUpdated  int64     `json:"lastUpdated"`
	History      []float64 `json:"history"`
}

// DisplayScore maps the stored score onto the UI's 0-100 scale.
func (r *RespectMeter) DisplayScore() float64 {
	return r.RespectScore * RespectDisplayFactor
}

// MoodMeter tracks the bot's mood toward a user.
type MoodMeter struct {
	LastMood    string   `json:"lastMood"`
	MoodHistory []string `json:"moodHistory"`
	LastUpdated int64    `json:"lastUpdated"`
}

// SearchCacheEntry caches one web-search result set, keyed by query hash.
type SearchCacheEntry struct {
	Query    string        `json:"query"`
	Results  SearchResults `json:"results"`
	Source   string        `json:"source"`
	CachedAt int64         `json:"cachedAt"`
}

// SearchResult is a single web-search hit.
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

// SearchResults is the payload returned by the search backend.
type SearchResults struct {
	Results []SearchResult `json:"results"`
	Answer  string         `json:"answer,omitempty"`
	Images  []string       `json:"images,omitempty"`
}

// JokeEntry is one stored joke from a user.
type JokeEntry struct {
	Joke      string `json:"joke"`
	AddedAt   int64  `json:"addedAt"`
	UsedCount int    `json:"usedCount"`
}

// ReactionTally is the per-message reaction state: emoji -> count plus
// emoji -> reacting users. Users keeps each add idempotent per user/emoji.
type ReactionTally struct {
	Counts map[string]int      `json:"counts"`
	Users  map[string][]string `json:"_users"`
}

// UserPreferences are user settings, shallow-merged over defaults on write.
type UserPreferences struct {
	FlirtMode     bool   `json:"flirtMode"`
	CensorMode    bool   `json:"censorMode"`
	RoastLevel    int    `json:"roastLevel"`
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	Language      string `json:"language"`
	LastUpdated   int64  `json:"lastUpdated"`
}

// PreferencesPatch is a partial preferences update; nil fields keep their
// current value.
type PreferencesPatch struct {
	FlirtMode     *bool   `json:"flirtMode,omitempty"`
	CensorMode    *bool   `json:"censorMode,omitempty"`
	RoastLevel    *int    `json:"roastLevel,omitempty"`
	Theme         *string `json:"theme,omitempty"`
	Notifications *bool   `json:"notifications,omitempty"`
	Language      *string `json:"language,omitempty"`
}

// ModerationFlag is one named flag on a user. Active flags gate actions.
type ModerationFlag struct {
	Active bool   `json:"active"`
	Reason string `json:"reason"`
	SetAt  int64  `json:"setAt"`
}

// ModerationFlags maps flag name -> flag. Writes merge additively.
type ModerationFlags map[string]ModerationFlag

// FlagMuted blocks chat and calls while active.
const FlagMuted = "muted"

// LastSeenRecord records the most recent user activity.
type LastSeenRecord struct {
	LastSeen     string `json:"lastSeen"` // RFC 3339
	LastActivity int64  `json:"lastActivity"`
}

// NewLastSeen builds a LastSeenRecord for the given instant.
func NewLastSeen(t time.Time) *LastSeenRecord {
	return &LastSeenRecord{
		LastSeen:     t.UTC().Format(time.RFC3339),
		LastActivity: t.UnixMilli(),
	}
}
