package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator produces ULID identifiers. ULIDs sort by creation time,
// which keeps event ids aligned with insertion order within a day bucket.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate returns a fresh ULID string.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
