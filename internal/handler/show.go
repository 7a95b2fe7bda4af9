// Package handler exposes the HTTP handlers of the promo service.  Public
// handlers never require authentication; only the admin listing does.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/om-adella-promo/internal/model"
)

// ShowHandler serves the static show record.
type ShowHandler struct {
	Show model.Show
	Page model.Page
}

// GetShow returns the show record and the act branding around it.
func (h *ShowHandler) GetShow(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"show": h.Show,
		"page": h.Page,
	})
}
