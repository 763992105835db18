package model

// PostFilters is a reusable description of a post query. Results are always
// ordered by creation time, newest first.
type PostFilters struct {
	AuthorID   *int64
	FollowedBy *int64
	Limit      *int
	Offset     *int
}

// WithPage returns a copy of f restricted to one page.
func (f PostFilters) WithPage(limit, offset int) PostFilters {
	f.Limit = &limit
	f.Offset = &offset
	return f
}
