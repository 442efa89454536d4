// Package batch provides helpers for splitting bulk API lookups into
// request-sized chunks and for enumerating the date/hour window segments
// used by time-ranged endpoints.
package batch

import "sort"

// Chunks splits items into consecutive slices of at most size elements.
// The input order is preserved across chunks. A non-positive size or an
// empty input yields nil.
func Chunks[T any](items []T, size int) [][]T {
	if len(items) == 0 || size <= 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// Reorder stably sorts items in place so they follow the order their IDs
// appear in ids, and returns the same slice. Batch endpoints group their
// responses by internal criteria, so results have to be put back into the
// order the caller asked for. Items with an ID not present in ids sort
// after everything else.
func Reorder[T any](items []T, ids []int64, id func(T) int64) []T {
	pos := make(map[int64]int, len(ids))
	for i, v := range ids {
		if _, ok := pos[v]; !ok {
			pos[v] = i
		}
	}
	rank := func(t T) int {
		if p, ok := pos[id(t)]; ok {
			return p
		}
		return len(ids)
	}
	sort.SliceStable(items, func(a, b int) bool {
		return rank(items[a]) < rank(items[b])
	})
	return items
}
