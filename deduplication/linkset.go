// Package deduplication tracks which article links are already known.
package deduplication

import "newsdigest/types"

// LinkSet is an exact-match set of article links. It is not safe for concurrent use.
type LinkSet struct {
	links map[string]struct{}
}

// NewLinkSet seeds the set with the given links
func NewLinkSet(links []string) *LinkSet {
	s := &LinkSet{links: make(map[string]struct{}, len(links))}
	for _, link := range links {
		s.Add(link)
	}
	return s
}

// FromArchive seeds the set with every link already in the archive
func FromArchive(archive types.Archive) *LinkSet {
	return NewLinkSet(archive.Links())
}

// Seen reports whether link is known. Comparison is byte-exact; no URL normalization.
func (s *LinkSet) Seen(link string) bool {
	_, ok := s.links[link]
	return ok
}

// Add records link and reports whether it was new
func (s *LinkSet) Add(link string) bool {
	if s.Seen(link) {
		return false
	}
	s.links[link] = struct{}{}
	return true
}

func (s *LinkSet) Len() int {
	return len(s.links)
}
