package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// Generator creates opaque identifiers. Uniqueness only needs to hold within
// one local data directory.
type Generator interface {
	New() string
}

// ULID produces lexicographically sortable identifiers.
type ULID struct{}

func (ULID) New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
