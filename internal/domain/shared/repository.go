package shared

// Page describes an offset/limit window over a newest-first listing.
type Page struct {
	Offset int
	Limit  int
}

// Normalize clamps the page into [1, maxLimit] rows starting at a
// non-negative offset. A zero limit becomes defaultLimit.
func (p Page) Normalize(defaultLimit, maxLimit int) Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}
