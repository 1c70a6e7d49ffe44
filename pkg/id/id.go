package id

import (
	"bytes"
	cryptoRand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu    sync.Mutex
	mono  io.Reader
	epoch = time.Unix(0, 0)
)

func init() {
	// Seed from crypto/rand; ulid.Monotonic keeps ids generated within the same
	// millisecond increasing.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID string. Refresh cycles, chart handles and exported rows
// are all tagged with one so log lines and exports sort by creation time.
func New() string {
	return At(time.Now())
}

// At returns a ULID whose time component is t.
func At(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(t.UTC()), mono)
	if err != nil {
		// Only possible if entropy fails or t moves backwards within one millisecond.
		panic(err)
	}
	return id.String()
}

// Derive returns the same ULID for the same t and key: the time component
// is t and the entropy comes from a hash of key. Times before the unix
// epoch are clamped to it.
func Derive(t time.Time, key string) string {
	if t.Before(epoch) {
		t = epoch
	}
	sum := sha256.Sum256([]byte(key))
	return ulid.MustNew(ulid.Timestamp(t.UTC()), bytes.NewReader(sum[:])).String()
}

// Time extracts the creation time of an id produced by New or At.
func Time(s string) (time.Time, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
