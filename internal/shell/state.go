// Package shell holds the mod list state behind the terminal UI: the last
// snapshot fetched from the backend, search filtering over it, and the
// helpers the add-mod flow needs.
package shell

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"

	"github.com/jxwalker/modman/internal/bridge"
)

// State owns the mod list snapshot. Refresh results are the only writer;
// rendering and search read copies.
type State struct {
	mu          sync.RWMutex
	snapshot    []string
	issued      uint64
	applied     uint64
	refreshedAt time.Time
}

func New() *State {
	return &State{}
}

// BeginRefresh reserves a sequence number for a ListMods call about to be made.
func (s *State) BeginRefresh() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// ApplyRefresh replaces the snapshot with names fetched under seq. A result
// older than one already applied is dropped and ok is false, so the list
// always reflects the most recent refresh regardless of response order.
func (s *State) ApplyRefresh(seq uint64, names []string) (snapshot []string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != 0 && seq < s.applied {
		return copyNames(s.snapshot), false
	}
	if seq > s.applied {
		s.applied = seq
	}
	s.snapshot = Unique(names)
	s.refreshedAt = time.Now()
	return copyNames(s.snapshot), true
}

// Replace installs names outside the refresh sequence.
func (s *State) Replace(names []string) []string {
	out, _ := s.ApplyRefresh(0, names)
	return out
}

// Snapshot returns a copy of the current mod names in backend order.
func (s *State) Snapshot() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyNames(s.snapshot)
}

func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshot)
}

// RefreshedAt is the zero time until the first refresh lands.
func (s *State) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

// Search filters the current snapshot. The snapshot itself is untouched.
func (s *State) Search(term string) []string {
	return Filter(s.Snapshot(), term)
}

// Filter returns the names containing term, ignoring case, in snapshot order.
// An empty term returns every name.
func Filter(snapshot []string, term string) []string {
	if term == "" {
		return copyNames(snapshot)
	}
	fold := cases.Fold()
	needle := fold.String(term)
	out := make([]string, 0, len(snapshot))
	for _, name := range snapshot {
		if containsFold(fold, name, needle) {
			out = append(out, name)
		}
	}
	return out
}

func containsFold(fold cases.Caser, name, needle string) bool {
	return strings.Contains(fold.String(name), needle)
}

// Unique drops repeated names, keeping the first occurrence.
func Unique(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Fetch lists the mods and returns their names in backend order.
func Fetch(ctx context.Context, b bridge.Backend) ([]string, error) {
	mods, err := b.ListMods(ctx)
	if err != nil {
		return nil, err
	}
	return bridge.Names(mods), nil
}

func copyNames(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
