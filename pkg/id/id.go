// Package id produces time-ordered 128-bit identifiers for entities,
// events, turns, and scenes.
package id

import (
	"sync"

	"github.com/google/uuid"
)

// ID is a time-ordered 128-bit identifier. Ordering by ID coincides with
// creation order and is the sole sort key for ledger reads and mention
// scans.
type ID uuid.UUID

// Nil is the zero-value identifier. Never produced by New; used as a
// sentinel for "no identifier assigned".
var Nil ID

var (
	mu       sync.Mutex
	lastTime uuid.UUID
	counter  uint16
)

// New produces a fresh time-ordered identifier. Two successive calls
// yield strictly ordered values under the system sort order. Within the
// same millisecond tick (the 48-bit UUIDv7 timestamp prefix), the order
// comes from the sub-millisecond sequence uuid.NewV7 writes into bytes
// 6-7; a monotone counter is additionally written into the last two
// bytes.
func New() ID {
	mu.Lock()
	defer mu.Unlock()

	u, err := uuid.NewV7()
	if err != nil {
		// uuid.NewV7 only errors if the global random source fails to
		// read, which stdlib crypto/rand does not do in practice.
		panic("id: failed to generate uuidv7: " + err.Error())
	}

	if sameTick(lastTime, u) {
		counter++
		bumpTail(&u, counter)
	} else {
		counter = 0
	}
	lastTime = u

	return ID(u)
}

// sameTick reports whether a and b share the same 48-bit UUIDv7 timestamp
// prefix (the first 6 bytes).
func sameTick(a, b uuid.UUID) bool {
	for i := 0; i < 6; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return a != uuid.Nil
}

// bumpTail writes a monotone counter into the last two bytes of u. Bytes
// 8-13 stay random and compare first, so the counter alone does not
// order IDs minted within the same millisecond tick.
func bumpTail(u *uuid.UUID, counter uint16) {
	u[14] = byte(counter >> 8)
	u[15] = byte(counter)
}

// String renders the identifier in canonical UUID form.
func (i ID) String() string {
	return uuid.UUID(i).String()
}

// Less reports whether i sorts strictly before other under the system's
// time-ordered sort key.
func (i ID) Less(other ID) bool {
	for k := 0; k < len(i); k++ {
		if i[k] != other[k] {
			return i[k] < other[k]
		}
	}
	return false
}

// IsNil reports whether i is the zero identifier.
func (i ID) IsNil() bool {
	return i == Nil
}

// Parse decodes a canonical UUID string into an ID.
func Parse(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, err
	}
	return ID(u), nil
}

// MarshalText implements encoding.TextMarshaler so IDs serialize as plain
// UUID strings in JSON.
func (i ID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
