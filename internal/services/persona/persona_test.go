package persona

import (
	"io"
	"strings"
	"testing"

	"github.com/kyartuvzgo/kyartu-bot/internal/models"
	"github.com/sirupsen/logrus"
)

func testAnalyzer() *Analyzer {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewAnalyzer(log)
}

func TestAnalyzeMood(t *testing.T) {
	a := testAnalyzer()

	cases := []struct {
		text string
		want string
	}{
		{"haha that was great", models.MoodHappy},
		{"you are so annoying, stop", models.MoodAnnoyed},
		{"let's go bratan, khorovats time", models.MoodHyped},
		{"you look beautiful jan", models.MoodRomantic},
		{"you're a stupid loser", models.MoodOffended},
	}
	for _, c := range cases {
		if got := a.AnalyzeMood(c.text, models.MoodNeutral); got != c.want {
			t.Errorf("AnalyzeMood(%q): expected %q, got %q", c.text, c.want, got)
		}
	}

	// No keyword keeps the current mood
	if got := a.AnalyzeMood("the weather is fine", models.MoodHyped); got != models.MoodHyped {
		t.Errorf("expected current mood to persist, got %q", got)
	}
	if got := a.AnalyzeMood("the weather is fine", "bogus"); got != models.MoodNeutral {
		t.Errorf("invalid current mood should fall back to neutral, got %q", got)
	}
}

func TestDetectJoke(t *testing.T) {
	a := testAnalyzer()

	joke, ok := a.DetectJoke("  knock knock, who's there  ")
	if !ok {
		t.Fatal("expected joke detection")
	}
	if strings.HasPrefix(joke, " ") || strings.HasSuffix(joke, " ") {
		t.Error("joke text should be trimmed")
	}

	if _, ok := a.DetectJoke("what time is it"); ok {
		t.Error("plain question misdetected as joke")
	}
}

func TestRespectDelta(t *testing.T) {
	a := testAnalyzer()

	if d := a.RespectDelta("thank you bro, much respect"); d != 0.2 {
		t.Errorf("expected +0.2, got %v", d)
	}
	if d := a.RespectDelta("you're trash"); d != -0.3 {
		t.Errorf("expected -0.3, got %v", d)
	}
	if d := a.RespectDelta("haha ok"); d != 0.1 {
		t.Errorf("expected +0.1, got %v", d)
	}
	if d := a.RespectDelta("tell me about your car"); d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestSuggestMode(t *testing.T) {
	a := testAnalyzer()

	if got := a.SuggestMode("roast me, I can take it", models.ModeDefault); got != models.ModeRoast {
		t.Errorf("expected roast, got %q", got)
	}
	if got := a.SuggestMode("any advice? what should i do", models.ModeDefault); got != models.ModeWisdom {
		t.Errorf("expected wisdom, got %q", got)
	}
	if got := a.SuggestMode("just saying hi", models.ModeFlirt); got != models.ModeFlirt {
		t.Errorf("expected current mode to persist, got %q", got)
	}
}

func TestWantsSearch(t *testing.T) {
	a := testAnalyzer()

	if !a.WantsSearch("search for the best khash recipe") {
		t.Error("lookup phrasing should trigger search")
	}
	if a.WantsSearch("i love you man") {
		t.Error("chitchat should not trigger search")
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	state := &models.SessionState{CurrentMode: models.ModeRoast}
	respect := &models.RespectMeter{RespectScore: 4.5}
	mood := &models.MoodMeter{LastMood: models.MoodHyped}
	prefs := &models.UserPreferences{CensorMode: true, RoastLevel: 4}

	prompt := BuildSystemPrompt("You are Kyartu.", state, respect, mood, prefs)

	for _, want := range []string{"You are Kyartu.", "roast mode", "4.5 out of 5", "hyped", "no profanity", "4 out of 5"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
