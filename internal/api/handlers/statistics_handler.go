package handlers

import (
	"context"

	"sales-dashboard/internal/dto"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type StatisticsProvider interface {
	TotalSales(ctx context.Context, month string) (*dto.TotalSaleResponse, error)
	SoldCount(ctx context.Context, month string) (*dto.SoldItemsResponse, error)
	NotSoldCount(ctx context.Context, month string) (*dto.NotSoldItemsResponse, error)
	PriceRanges(ctx context.Context, month string) (*dto.PriceRangeResponse, error)
	Categories(ctx context.Context, month string) (*dto.CategoryResponse, error)
	Combined(ctx context.Context, month string) (*dto.CombinedResponse, error)
}

type StatisticsHandler struct {
	stats  StatisticsProvider
	logger *zap.Logger
}

func NewStatisticsHandler(stats StatisticsProvider, logger *zap.Logger) *StatisticsHandler {
	return &StatisticsHandler{
		stats:  stats,
		logger: logger,
	}
}

// TotalSales godoc
// @Summary Total sale amount of a month
// @Tags statistics
// @Produce json
// @Param month query string true "Month name, e.g. March"
// @Success 200 {object} dto.TotalSaleResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /getTotalSales [get]
func (h *StatisticsHandler) TotalSales(c *fiber.Ctx) error {
	return h.serve(c, "total sales", func(ctx context.Context, month string) (any, error) {
		return h.stats.TotalSales(ctx, month)
	})
}

// SoldCount godoc
// @Summary Number of sold items in a month
// @Tags statistics
// @Produce json
// @Param month query string true "Month name"
// @Success 200 {object} dto.SoldItemsResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /getTotalcount [get]
func (h *StatisticsHandler) SoldCount(c *fiber.Ctx) error {
	return h.serve(c, "sold count", func(ctx context.Context, month string) (any, error) {
		return h.stats.SoldCount(ctx, month)
	})
}

// NotSoldCount godoc
// @Summary Number of unsold items in a month
// @Tags statistics
// @Produce json
// @Param month query string true "Month name"
// @Success 200 {object} dto.NotSoldItemsResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /getTotalcountNot [get]
func (h *StatisticsHandler) NotSoldCount(c *fiber.Ctx) error {
	return h.serve(c, "unsold count", func(ctx context.Context, month string) (any, error) {
		return h.stats.NotSoldCount(ctx, month)
	})
}

// PriceRanges godoc
// @Summary Sold items per price range
// @Description Ten fixed buckets from 0-100 to 901-above, zero counts included
// @Tags statistics
// @Produce json
// @Param month query string true "Month name"
// @Success 200 {object} dto.PriceRangeResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /barchart [get]
func (h *StatisticsHandler) PriceRanges(c *fiber.Ctx) error {
	return h.serve(c, "price ranges", func(ctx context.Context, month string) (any, error) {
		return h.stats.PriceRanges(ctx, month)
	})
}

// Categories godoc
// @Summary Sold items per category
// @Tags statistics
// @Produce json
// @Param month query string true "Month name"
// @Success 200 {object} dto.CategoryResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /categorycount [get]
func (h *StatisticsHandler) Categories(c *fiber.Ctx) error {
	return h.serve(c, "categories", func(ctx context.Context, month string) (any, error) {
		return h.stats.Categories(ctx, month)
	})
}

// Combined godoc
// @Summary Price ranges and categories in one response
// @Description If one series fails the other is still returned next to the error
// @Tags statistics
// @Produce json
// @Param month query string true "Month name"
// @Success 200 {object} dto.CombinedResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]interface{}
// @Router /combined [get]
func (h *StatisticsHandler) Combined(c *fiber.Ctx) error {
	resp, err := h.stats.Combined(c.UserContext(), c.Query("month"))
	if err != nil {
		h.logger.Error("Combined statistics failed", zap.Error(err))
		if resp == nil {
			return respondError(c, err)
		}
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"data":  resp.Data,
			"error": err.Error(),
		})
	}
	return c.JSON(resp)
}

func (h *StatisticsHandler) serve(c *fiber.Ctx, name string, fn func(ctx context.Context, month string) (any, error)) error {
	resp, err := fn(c.UserContext(), c.Query("month"))
	if err != nil {
		h.logger.Error("Statistics request failed", zap.String("statistic", name), zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(resp)
}
