package pagination

import (
	"net/http"
	"strconv"
)

// MaxPerPage bounds the page size a caller may request.
const MaxPerPage = 100

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Offset  int `json:"-"`
}

// DefaultParams returns the catalog defaults.
func DefaultParams() Params {
	return Params{Page: 1, PerPage: 20}
}

// FromRequest reads page and per_page from the query string. perPage is used
// when per_page is absent or invalid; a non-positive perPage falls back to
// the default.
func FromRequest(r *http.Request, perPage int) Params {
	p := Params{Page: 1, PerPage: perPage}
	if p.PerPage <= 0 || p.PerPage > MaxPerPage {
		p.PerPage = DefaultParams().PerPage
	}

	q := r.URL.Query()
	if page := q.Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}
	if pp := q.Get("per_page"); pp != "" {
		if v, err := strconv.Atoi(pp); err == nil && v > 0 && v <= MaxPerPage {
			p.PerPage = v
		}
	}

	p.Offset = (p.Page - 1) * p.PerPage
	return p
}

// Window returns the [start, end) bounds of the page within total items.
func (p Params) Window(total int) (start, end int) {
	start = p.Offset
	if start > total {
		start = total
	}
	end = start + p.PerPage
	if end > total {
		end = total
	}
	return start, end
}

// Result wraps a paginated response.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewResult creates a paginated result. A nil data slice is encoded as [].
func NewResult[T any](data []T, totalCount int, params Params) Result[T] {
	totalPages := totalCount / params.PerPage
	if totalCount%params.PerPage > 0 {
		totalPages++
	}
	if data == nil {
		data = []T{}
	}

	return Result[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
