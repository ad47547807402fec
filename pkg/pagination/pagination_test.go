package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func parseQuery(t *testing.T, query string) *PageParams {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return ParsePageParams(c)
}

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		query    string
		page     int
		pageSize int
	}{
		{"", DefaultPage, DefaultPageSize},
		{"page=3&page_size=50", 3, 50},
		{"page=0&page_size=0", DefaultPage, DefaultPageSize},
		{"page=-1&page_size=abc", DefaultPage, DefaultPageSize},
		{"page=2&page_size=9999", 2, MaxPageSize},
	}

	for _, tt := range tests {
		params := parseQuery(t, tt.query)
		assert.Equal(t, tt.page, params.Page, tt.query)
		assert.Equal(t, tt.pageSize, params.PageSize, tt.query)
	}
}

func TestPageParamsOffset(t *testing.T) {
	p := &PageParams{Page: 3, PageSize: 20}
	assert.Equal(t, 40, p.Offset())

	p = &PageParams{Page: 1, PageSize: 20}
	assert.Equal(t, 0, p.Offset())
}

func TestNewPageInfo(t *testing.T) {
	info := NewPageInfo(2, 20, 45)
	assert.Equal(t, 3, info.TotalPages)
	assert.True(t, info.HasNext)
	assert.True(t, info.HasPrev)

	info = NewPageInfo(1, 20, 0)
	assert.Equal(t, 0, info.TotalPages)
	assert.False(t, info.HasNext)
	assert.False(t, info.HasPrev)
}
