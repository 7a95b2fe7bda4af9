package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/om-adella-promo/internal/model"
	"github.com/iliyamo/om-adella-promo/internal/promo"
)

// PromoHandler serves the shareable artefacts: a QR code and a PDF flyer.
type PromoHandler struct {
	Show      model.Show
	Page      model.Page
	PublicURL string
}

// QR returns a PNG QR code for the public page URL (?size=, 64..1024).
func (h *PromoHandler) QR(c echo.Context) error {
	size, _ := strconv.Atoi(c.QueryParam("size"))
	if size < 64 || size > 1024 {
		size = 256
	}
	png, err := promo.QRPNG(h.PublicURL, size)
	if err != nil {
		c.Logger().Errorf("qr: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "qr generation failed"})
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, "image/png", png)
}

// Flyer returns a printable PDF flyer of the show.
func (h *PromoHandler) Flyer(c echo.Context) error {
	qr, err := promo.QRPNG(h.PublicURL, 256)
	if err != nil {
		c.Logger().Warnf("flyer: qr: %v", err)
		qr = nil
	}
	pdf, err := promo.Flyer(promo.FlyerData{Show: h.Show, Page: h.Page, PageURL: h.PublicURL, QRPNG: qr})
	if err != nil {
		c.Logger().Errorf("flyer: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "flyer generation failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="om-adella-flyer.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
