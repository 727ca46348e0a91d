// Package quickmatch binds received service entries to configured client
// services.
//
// The index is sorted by the combined key serviceID<<16 | instanceID. A
// lookup bisects to any entry carrying the key, then scans upward and
// downward through the run of equal keys, since several major or minor
// version variants of one service may be configured side by side. The first
// entry that also matches the major version, the minor version policy, the
// blacklist and the capability record wins.
package quickmatch

import (
	"slices"

	"github.com/someip-sd/sdclient-go/pkg/config"
	"github.com/someip-sd/sdclient-go/pkg/sd"
)

// Entry is one configured client service as seen by the resolver.
type Entry struct {
	Handle       sd.ServiceHandle
	ServiceID    uint16
	InstanceID   uint16
	MajorVersion uint8
	MinorVersion uint32
	Policy       config.VersionPolicy
	Blacklist    []uint32
	Capability   string
}

func (e *Entry) key() uint32 {
	return combinedKey(e.ServiceID, e.InstanceID)
}

// Query is a received service entry.
type Query struct {
	ServiceID    uint16
	InstanceID   uint16
	MajorVersion uint8
	MinorVersion uint32
	Capability   string

	// CheckMinor enables minor version and blacklist evaluation.
	// Subscription acknowledgements carry no meaningful minor version.
	CheckMinor bool
}

func combinedKey(serviceID, instanceID uint16) uint32 {
	return uint32(serviceID)<<16 | uint32(instanceID)
}

// Index is an immutable sorted table of entries.
type Index struct {
	entries []Entry
}

// NewIndex builds an index. Entries with equal keys keep their relative
// configuration order.
func NewIndex(entries []Entry) *Index {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		ka, kb := a.key(), b.key()
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		default:
			return 0
		}
	})
	return &Index{entries: sorted}
}

// Len returns the number of indexed entries.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Lookup returns the handle of the configured service q refers to.
func (ix *Index) Lookup(q Query) (sd.ServiceHandle, bool) {
	n := len(ix.entries)
	if n == 0 {
		return 0, false
	}
	target := combinedKey(q.ServiceID, q.InstanceID)

	lo, hi := 0, n-1
	mid := (lo + hi + 1) / 2
	for lo < hi {
		k := ix.entries[mid].key()
		if k == target {
			break
		}
		if target < k {
			hi = mid - 1
		} else {
			lo = mid + 1
		}
		mid = (lo + hi + 1) / 2
	}

	for i := mid; i < n && ix.entries[i].key() == target; i++ {
		if ix.entries[i].matches(&q) {
			return ix.entries[i].Handle, true
		}
	}
	for i := mid - 1; i >= 0 && ix.entries[i].key() == target; i-- {
		if ix.entries[i].matches(&q) {
			return ix.entries[i].Handle, true
		}
	}
	return 0, false
}

func (e *Entry) matches(q *Query) bool {
	if e.MajorVersion != q.MajorVersion {
		return false
	}
	if q.CheckMinor && !e.acceptsMinor(q.MinorVersion) {
		return false
	}
	return e.Capability == q.Capability
}

func (e *Entry) acceptsMinor(minor uint32) bool {
	if slices.Contains(e.Blacklist, minor) {
		return false
	}
	switch e.Policy {
	case config.ExactOrAny:
		return e.MinorVersion == sd.AnyMinor || e.MinorVersion == minor
	case config.Minimum:
		return minor >= e.MinorVersion
	default:
		return false
	}
}
