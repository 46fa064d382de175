package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func paramsFor(t *testing.T, query string) (int, int) {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return pageParams(c)
}

func TestPageParams(t *testing.T) {
	cases := []struct {
		name     string
		query    string
		page     int
		pageSize int
	}{
		{"defaults", "", 1, DefaultPageSize},
		{"explicit", "page=3&pageSize=50", 3, 50},
		{"zero page", "page=0", 1, DefaultPageSize},
		{"negative page", "page=-2&pageSize=10", 1, 10},
		{"oversized pageSize", "pageSize=1000", 1, MaxPageSize},
		{"garbage", "page=abc&pageSize=xyz", 1, DefaultPageSize},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, pageSize := paramsFor(t, tc.query)
			if page != tc.page || pageSize != tc.pageSize {
				t.Errorf("pageParams(%q) = (%d, %d), want (%d, %d)",
					tc.query, page, pageSize, tc.page, tc.pageSize)
			}
		})
	}
}
