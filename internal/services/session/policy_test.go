package session

import (
	"testing"
	"time"
)

func TestKeyShape(t *testing.T) {
	got := Key(NamespaceChat, ScopeSession, "abc")
	if got != "chat:session:abc" {
		t.Errorf("unexpected key: %q", got)
	}
}

func TestTTLTable(t *testing.T) {
	cases := []struct {
		namespace string
		want      time.Duration
	}{
		{NamespaceChat, 24 * time.Hour},
		{NamespaceSession, 24 * time.Hour},
		{NamespaceRespect, 7 * 24 * time.Hour},
		{NamespaceMood, 7 * 24 * time.Hour},
		{NamespaceSearch, time.Hour},
		{NamespaceJokes, 3 * 24 * time.Hour},
		{NamespaceReactions, 7 * 24 * time.Hour},
		{NamespacePrefs, 30 * 24 * time.Hour},
		{NamespaceModeration, 24 * time.Hour},
		{NamespaceLastSeen, 7 * 24 * time.Hour},
		{NamespaceCallAttempt, 7 * 24 * time.Hour},
	}
	for _, c := range cases {
		if got := TTL(c.namespace); got != c.want {
			t.Errorf("TTL(%s): expected %v, got %v", c.namespace, c.want, got)
		}
	}

	if got := TTL("unknown"); got != time.Hour {
		t.Errorf("unknown namespace should get the short default, got %v", got)
	}
}

func TestSearchKeyNormalization(t *testing.T) {
	a := SearchKey("best khash recipe")
	b := SearchKey("  Best   KHASH   Recipe ")
	if a != b {
		t.Errorf("normalized-equal queries should hash equal: %q vs %q", a, b)
	}

	c := SearchKey("worst khash recipe")
	if a == c {
		t.Error("different queries should not collide here")
	}

	if len(a) != 16 {
		t.Errorf("expected 16 hex chars, got %q", a)
	}
}
