package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/om-adella-promo/internal/model"
)

// LocationLister reads captured locations back for the admin view.
type LocationLister interface {
	ListRecent(ctx context.Context, limit int) ([]*model.Location, error)
	CountBySource(ctx context.Context) (map[string]int, error)
}

// AdminHandler serves the admin listing of captured locations.
type AdminHandler struct {
	Locations LocationLister
}

// ListLocations returns the newest captures (?limit=, 1..500, default 50)
// and per-source totals.
func (h *AdminHandler) ListLocations(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	ctx := c.Request().Context()
	items, err := h.Locations.ListRecent(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	totals, err := h.Locations.CountBySource(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "totals": totals})
}
