// Package ids generates the opaque identifiers used as cache-key scopes.
// ULIDs keep them sortable by creation time and collision-resistant without
// any coordination.
package ids

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

func newULID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return "sess_" + strings.ToLower(newULID())
}

// NewUserID returns a fresh user identifier.
func NewUserID() string {
	return "user_" + strings.ToLower(newULID())
}

// NewMessageID returns a fresh message identifier.
func NewMessageID() string {
	return "msg_" + strings.ToLower(newULID())
}
