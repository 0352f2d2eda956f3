package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest_Defaults(t *testing.T) {
	p := FromRequest(httptest.NewRequest(http.MethodGet, "/catalog", nil), 0)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_CustomValues(t *testing.T) {
	p := FromRequest(httptest.NewRequest(http.MethodGet, "/catalog?page=3&per_page=50", nil), 0)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 50, p.PerPage)
	assert.Equal(t, 100, p.Offset)
}

func TestFromRequest_InvalidValuesFallBack(t *testing.T) {
	tests := []string{"page=-1", "page=0", "page=abc&per_page=0", "per_page=101", "per_page=x"}
	for _, q := range tests {
		t.Run(q, func(t *testing.T) {
			p := FromRequest(httptest.NewRequest(http.MethodGet, "/catalog?"+q, nil), 0)
			assert.Equal(t, 1, p.Page)
			assert.Equal(t, 20, p.PerPage)
		})
	}
}

func TestFromRequest_CallerDefault(t *testing.T) {
	p := FromRequest(httptest.NewRequest(http.MethodGet, "/catalog?page=2", nil), 6)
	assert.Equal(t, 6, p.PerPage)
	assert.Equal(t, 6, p.Offset)

	p = FromRequest(httptest.NewRequest(http.MethodGet, "/catalog", nil), 0)
	assert.Equal(t, 20, p.PerPage)
}

func TestParams_Window(t *testing.T) {
	p := Params{Page: 2, PerPage: 4, Offset: 4}
	start, end := p.Window(10)
	assert.Equal(t, 4, start)
	assert.Equal(t, 8, end)

	start, end = p.Window(6)
	assert.Equal(t, 4, start)
	assert.Equal(t, 6, end)

	start, end = Params{Page: 5, PerPage: 4, Offset: 16}.Window(6)
	assert.Equal(t, 6, start)
	assert.Equal(t, 6, end)
}

func TestNewResult(t *testing.T) {
	r := NewResult([]int{1, 2}, 5, Params{Page: 2, PerPage: 2, Offset: 2})

	assert.Equal(t, 3, r.TotalPages)
	assert.True(t, r.HasNext)
	assert.True(t, r.HasPrev)
	assert.Equal(t, []int{1, 2}, r.Data)
}

func TestNewResult_EmptyData(t *testing.T) {
	r := NewResult[string](nil, 0, DefaultParams())

	assert.Equal(t, 0, r.TotalPages)
	assert.False(t, r.HasNext)
	assert.False(t, r.HasPrev)
	assert.NotNil(t, r.Data)
}
