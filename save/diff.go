package save

import (
	"sort"
	"strings"
)

// ChangeKind classifies a difference between two snapshots.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeUpdated ChangeKind = "updated"
	ChangeRemoved ChangeKind = "removed"
)

// Change is one key that differs between two snapshots.
type Change struct {
	Key  string     `json:"key"`
	Kind ChangeKind `json:"kind"`
}

// Diff compares two raw backend snapshots and returns the changes to keys
// under namespace, with the prefix stripped, sorted by key.
func Diff(namespace string, before, after map[string]string) []Change {
	prefix := namespace + "_"
	var changes []Change

	for k, v := range after {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		old, ok := before[k]
		switch {
		case !ok:
			changes = append(changes, Change{Key: strings.TrimPrefix(k, prefix), Kind: ChangeAdded})
		case old != v:
			changes = append(changes, Change{Key: strings.TrimPrefix(k, prefix), Kind: ChangeUpdated})
		}
	}
	for k := range before {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if _, ok := after[k]; !ok {
			changes = append(changes, Change{Key: strings.TrimPrefix(k, prefix), Kind: ChangeRemoved})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Key < changes[j].Key })
	return changes
}
