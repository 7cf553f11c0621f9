package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Default numbering settings
const (
	DefaultNumberPrefix = "ORD"
	DefaultNumberDigits = 3
)

// Allocator derives human-readable order numbers from the current order count.
// It does not guarantee uniqueness on its own; the store's unique index does,
// and the caller retries with a new candidate after a collision.
type Allocator struct {
	prefix string
	digits int
	now    func() time.Time
	suffix func() string
}

// NewAllocator creates an allocator. Empty prefix or non-positive digits fall back to the defaults.
func NewAllocator(prefix string, digits int) *Allocator {
	if prefix == "" {
		prefix = DefaultNumberPrefix
	}
	if digits <= 0 {
		digits = DefaultNumberDigits
	}
	return &Allocator{
		prefix: prefix,
		digits: digits,
		now:    time.Now,
		suffix: randomSuffix,
	}
}

// Allocate returns prefix + (count+1), zero-padded to the configured width.
func (a *Allocator) Allocate(existingCount int64) string {
	if existingCount < 0 {
		existingCount = 0
	}
	return fmt.Sprintf("%s%0*d", a.prefix, a.digits, existingCount+1)
}

// Next returns the count-based candidate, skipping any candidate already
// tried within the same request.
func (a *Allocator) Next(existingCount int64, tried map[string]struct{}) string {
	candidate := a.Allocate(existingCount)
	for n := existingCount + 1; ; n++ {
		if _, seen := tried[candidate]; !seen {
			return candidate
		}
		candidate = a.Allocate(n)
	}
}

// Fallback returns a candidate that does not depend on the order count:
// prefix + unix milliseconds + 4 random hex characters.
func (a *Allocator) Fallback() string {
	return fmt.Sprintf("%s%d%s", a.prefix, a.now().UnixMilli(), a.suffix())
}

func randomSuffix() string {
	id := uuid.New()
	return fmt.Sprintf("%x", id[:2])
}
