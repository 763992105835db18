package model

import "math"

// Page is one offset-based slice of a longer result set.
type Page[T any] struct {
	Items   []T  `json:"items"`
	Number  int  `json:"page"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
	NextNum int  `json:"next_num,omitempty"`
	PrevNum int  `json:"prev_num,omitempty"`
}

// PageBounds normalises a 1-based page number and returns it together with
// the LIMIT and OFFSET to query. Numbers whose offset would overflow are
// clamped to the last representable page, which is always past the end.
func PageBounds(number, perPage int) (page, limit, offset int) {
	if perPage < 1 {
		perPage = 1
	}
	if number < 1 {
		number = 1
	}
	if maxPage := math.MaxInt / perPage; number > maxPage {
		number = maxPage
	}
	return number, perPage, (number - 1) * perPage
}

func NewPage[T any](items []T, number, perPage, total int) *Page[T] {
	if perPage < 1 {
		perPage = 1
	}
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}
	if items == nil {
		items = []T{}
	}
	p := &Page[T]{
		Items:   items,
		Number:  number,
		PerPage: perPage,
		Total:   total,
		HasNext: number < pages,
		HasPrev: number > 1,
	}
	if p.HasNext {
		p.NextNum = number + 1
	}
	if p.HasPrev {
		p.PrevNum = number - 1
	}
	return p
}
