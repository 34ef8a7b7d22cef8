// Package id issues the identifiers stamped on journal rows. They are
// ULIDs, so sorting decision records by ID sorts them by decision time,
// which is the ordering the journal's indexes and CSV exports assume.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = newEntropy()
)

// newEntropy builds a monotonic ULID entropy source seeded from
// crypto/rand. Monotonic entropy keeps two records stamped within the same
// millisecond in issue order.
func newEntropy() io.Reader {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID string stamped with the current time.
func New() string {
	return At(time.Now())
}

// At returns a ULID string stamped with t. The journal uses the decision
// time rather than the write time, so replayed or batched records still
// land in decision order.
func At(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	u, err := ulid.New(ulid.Timestamp(t.UTC()), entropy)
	if err != nil {
		// Only possible for a timestamp outside the ULID range or
		// exhausted monotonic entropy.
		panic(err)
	}
	return u.String()
}
