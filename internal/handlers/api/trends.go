// Package api exposes the query layer: trend rankings, historical anomalies
// and the live anomaly feed. It only reads pipeline state; all writes happen
// in the pipeline itself.
package api

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/Yash-97136/Pulse/internal/models"
)

// TrendReader serves trend ranking views.
type TrendReader interface {
	TopRange(ctx context.Context, offset, limit int) (*models.TrendsPage, error)
	KeywordVolume(ctx context.Context, keyword string) (int64, error)
}

// TrendsHandler handles trend ranking queries via JSON API.
type TrendsHandler struct {
	reader TrendReader
	topN   int
}

// NewTrendsHandler creates a new trends handler. topN bounds the page size.
func NewTrendsHandler(reader TrendReader, topN int) *TrendsHandler {
	return &TrendsHandler{reader: reader, topN: topN}
}

// List returns a page of the keyword ranking.
func (h *TrendsHandler) List(c fiber.Ctx) error {
	offset := queryInt(c, "offset", 0)
	limit := queryInt(c, "limit", h.topN)
	if limit < 1 || limit > h.topN {
		limit = h.topN
	}
	if offset < 0 {
		offset = 0
	}

	page, err := h.reader.TopRange(c.Context(), offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch trends")
	}
	return jsonSuccess(c, page)
}

// Get returns the current volume of a single keyword.
func (h *TrendsHandler) Get(c fiber.Ctx) error {
	keyword := c.Params("keyword")
	if keyword == "" {
		return jsonError(c, fiber.StatusBadRequest, "keyword is required")
	}

	volume, err := h.reader.KeywordVolume(c.Context(), keyword)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch keyword")
	}
	return jsonSuccess(c, fiber.Map{
		"keyword": keyword,
		"volume":  volume,
	})
}

// queryInt parses an integer query parameter with a fallback.
func queryInt(c fiber.Ctx, name string, fallback int) int {
	raw := c.Query(name, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
