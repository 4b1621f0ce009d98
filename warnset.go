package rpmverify

import "sync"

// warnSetCapacity is the bound on the warn-once key-id set (spec §4.6
// "warn-once policy": "capacity 256, FIFO replacement").
const warnSetCapacity = 256

// WarnSet is the bounded FIFO set of signer key ids already warned about.
// Per spec §4.6 it is strictly additive — there is no reset or remove —
// and degrades to "treat the key as new" rather than block when its lock
// can't be acquired: both operations use TryLock, which fails whenever
// another goroutine holds the lock at that moment, and then wasSeen
// reports false and record skips the insert.
//
// Spec §9 notes this is conventionally process-global singleton state but
// "preferred is to make it an explicitly constructed service that higher
// layers pass in, so tests can instantiate fresh sets per case" — this
// package follows that preference: callers construct one with NewWarnSet
// and pass it into ReadPackageFile explicitly. A process that wants the
// conventional singleton behavior just constructs one WarnSet at startup
// and passes the same pointer into every ReadPackageFile call.
type WarnSet struct {
	mu    sync.Mutex
	order []uint64
	seen  map[uint64]struct{}
}

// NewWarnSet returns an empty warn-once set, ready to pass into
// [ReadPackageFile].
func NewWarnSet() *WarnSet {
	return &WarnSet{seen: make(map[uint64]struct{}, warnSetCapacity)}
}

// wasSeen reports whether key id k has been recorded before. Key id 0 is
// never considered seen (spec invariant 7: "key_id == 0 => was_seen /
// record are no-ops").
func (s *WarnSet) wasSeen(k uint64) bool {
	if k == 0 {
		return false
	}
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()
	_, ok := s.seen[k]
	return ok
}

// record inserts k, evicting the oldest entry once the set is at
// capacity. A no-op for key id 0 or if the lock can't be acquired.
func (s *WarnSet) record(k uint64) {
	if k == 0 {
		return
	}
	if !s.mu.TryLock() {
		return
	}
	defer s.mu.Unlock()
	if _, ok := s.seen[k]; ok {
		return
	}
	if len(s.order) >= warnSetCapacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.seen, oldest)
	}
	s.order = append(s.order, k)
	s.seen[k] = struct{}{}
}
