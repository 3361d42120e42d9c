package priority

import (
	"cmp"
	"slices"
	"time"
)

// SortQueue orders items for the support queue: highest score first, and among
// equal scores the oldest ticket first. Items that tie on both keep their
// relative order.
func SortQueue[T any](items []T, score func(T) int, createdAt func(T) time.Time) {
	slices.SortStableFunc(items, func(a, b T) int {
		if c := cmp.Compare(score(b), score(a)); c != 0 {
			return c
		}
		return createdAt(a).Compare(createdAt(b))
	})
}
