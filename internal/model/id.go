package model

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid"
)

var entropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)

// NewID returns a collision-resistant task ID: a ULID, i.e. a millisecond
// timestamp followed by a random suffix. IDs sort by creation time.
func NewID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
