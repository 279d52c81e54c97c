package helper

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func resolveOn(t *testing.T, target string, defaultPerPage, maxPerPage int) Paging {
	t.Helper()
	app := fiber.New()
	var got Paging
	app.Get("/list", func(c *fiber.Ctx) error {
		got = ResolvePaging(c, defaultPerPage, maxPerPage)
		return c.SendStatus(fiber.StatusNoContent)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return got
}

func TestResolvePaging(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantPage   int
		wantPer    int
		wantOffset int
	}{
		{"defaults", "/list", 1, 20, 0},
		{"page and per_page", "/list?page=3&per_page=50", 3, 50, 100},
		{"limit alias", "/list?limit=30", 1, 30, 0},
		{"per_page wins over limit", "/list?per_page=10&limit=30", 1, 10, 0},
		{"capped", "/list?per_page=500", 1, 100, 0},
		{"garbage page", "/list?page=zero", 1, 20, 0},
		{"negative per_page", "/list?per_page=-5", 1, 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := resolveOn(t, tt.target, 20, 100)
			if p.Page != tt.wantPage || p.PerPage != tt.wantPer || p.Offset != tt.wantOffset {
				t.Errorf("paging = %+v, want page=%d per=%d offset=%d", p, tt.wantPage, tt.wantPer, tt.wantOffset)
			}
			if p.Limit != p.PerPage {
				t.Errorf("limit %d != per_page %d", p.Limit, p.PerPage)
			}
		})
	}
}

func TestBuildPaginationFromPage(t *testing.T) {
	p := BuildPaginationFromPage(45, 2, 20)
	if p.TotalPages != 3 {
		t.Errorf("total_pages = %d, want 3", p.TotalPages)
	}
	if !p.HasNext || !p.HasPrev {
		t.Errorf("has_next/has_prev = %v/%v, want true/true", p.HasNext, p.HasPrev)
	}

	empty := BuildPaginationFromPage(0, 1, 20)
	if empty.TotalPages != 1 {
		t.Errorf("total_pages for empty set = %d, want 1", empty.TotalPages)
	}
	if empty.HasNext || empty.HasPrev {
		t.Error("empty set reports neighbors")
	}
}

func TestStatusToErrorCode(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{fiber.StatusConflict, "CONFLICT"},
		{fiber.StatusNotFound, "NOT_FOUND"},
		{fiber.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{fiber.StatusTooManyRequests, "RATE_LIMITED"},
		{fiber.StatusBadGateway, "INTERNAL_ERROR"},
		{fiber.StatusTeapot, "ERROR"},
	}
	for _, tt := range tests {
		if got := statusToErrorCode(tt.status); got != tt.want {
			t.Errorf("statusToErrorCode(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
