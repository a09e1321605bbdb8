package frontier

// SeenSet tracks canonical URLs seen during one run. Two URLs that normalize
// identically are treated as the same page exactly once. The set only grows;
// there is no eviction.
//
// SeenSet is NOT safe for concurrent use. The engine mutates it only between
// waves, never from inside wave tasks, so no locking is needed.
type SeenSet struct {
	seen map[string]struct{}
}

// NewSeenSet creates an empty SeenSet.
func NewSeenSet() *SeenSet {
	return &SeenSet{seen: make(map[string]struct{})}
}

// IsNew reports whether the URL has not been seen before, marking it seen on
// first sight. URLs that fail to normalize are treated as not-new so callers
// never admit them.
func (s *SeenSet) IsNew(rawURL string) bool {
	norm, err := Normalize(rawURL)
	if err != nil {
		return false
	}
	if _, ok := s.seen[norm]; ok {
		return false
	}
	s.seen[norm] = struct{}{}
	return true
}

// Count returns the number of distinct canonical URLs seen so far.
func (s *SeenSet) Count() int {
	return len(s.seen)
}
