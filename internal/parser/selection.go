package parser

// Selection captures which posts the user picked from a scan, so the
// scrape phase can be filtered down to them. Scan and scrape are separate
// navigations of a live feed, so positions can shift between them; when
// both the preview and the re-extracted post carry a feed identifier the
// match is made on that identifier, and position is only the fallback for
// items whose markup lacks one.
type Selection struct {
	indices map[int]struct{}
	ids     map[string]struct{}
	// withID marks selected positions whose preview carried an identifier.
	// A raw post at such a position with a different identifier is a
	// shifted feed, not a match.
	withID map[int]bool
}

// NewSelection builds a Selection from the previews returned by a scan and
// the indices the user picked. Indices out of range are ignored.
func NewSelection(previews []PostPreview, indices []int) Selection {
	s := Selection{
		indices: make(map[int]struct{}, len(indices)),
		ids:     make(map[string]struct{}, len(indices)),
		withID:  make(map[int]bool, len(indices)),
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(previews) {
			continue
		}
		s.indices[idx] = struct{}{}
		if id := previews[idx].ElementID; id != "" {
			s.ids[id] = struct{}{}
			s.withID[idx] = true
		}
	}
	return s
}

// Len reports how many previews were selected.
func (s Selection) Len() int { return len(s.indices) }

// Matches reports whether a re-extracted post belongs to the selection.
func (s Selection) Matches(r RawPost) bool {
	if r.ElementID != "" {
		if _, ok := s.ids[r.ElementID]; ok {
			return true
		}
		if s.withID[r.Index] {
			return false
		}
	}
	_, ok := s.indices[r.Index]
	return ok
}

// FilterBySelection returns the raw posts that belong to the selection,
// preserving their order.
func FilterBySelection(raw []RawPost, sel Selection) []RawPost {
	var out []RawPost
	for _, r := range raw {
		if sel.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// FilterByIndices returns the raw posts whose extraction-time index is in
// the given set, preserving their order. Use FilterBySelection when scan
// previews are available; identifier matching survives feed reordering,
// bare indices do not.
func FilterByIndices(raw []RawPost, indices []int) []RawPost {
	set := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		set[idx] = struct{}{}
	}
	var out []RawPost
	for _, r := range raw {
		if _, ok := set[r.Index]; ok {
			out = append(out, r)
		}
	}
	return out
}
