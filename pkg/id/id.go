// Package id mints time-ordered order identifiers backed by ULIDs. IDs
// created within the same millisecond still sort in creation order.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.New(rand.NewSource(seed())), 0)
)

func seed() int64 {
	var b [8]byte
	if _, err := cryptoRand.Read(b[:]); err == nil {
		if s := int64(binary.LittleEndian.Uint64(b[:])); s != 0 {
			return s
		}
	}
	return time.Now().UnixNano()
}

// New returns a ULID string stamped with t.
func New(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(t.UTC()), entropy)
	if err != nil {
		// only when the clock goes backwards past the monotonic window
		panic(err)
	}
	return id.String()
}

// Order returns an order identifier of the form "<prefix>-<ULID>".
func Order(prefix string, t time.Time) string {
	if prefix == "" {
		return New(t)
	}
	return prefix + "-" + New(t)
}

// Time extracts the timestamp embedded in an identifier produced by New
// or Order.
func Time(s string) (time.Time, error) {
	if n := len(s); n > ulid.EncodedSize {
		s = s[n-ulid.EncodedSize:]
	}
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
