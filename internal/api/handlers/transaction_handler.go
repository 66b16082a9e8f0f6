package handlers

import (
	"context"
	"fmt"
	"strconv"

	"sales-dashboard/internal/dto"
	"sales-dashboard/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Ingester interface {
	Ingest(ctx context.Context) (*dto.IngestResponse, error)
}

type TransactionLister interface {
	List(ctx context.Context, p service.ListParams) (*dto.TransactionListResponse, error)
}

type TransactionHandler struct {
	ingester Ingester
	lister   TransactionLister
	logger   *zap.Logger
}

func NewTransactionHandler(ingester Ingester, lister TransactionLister, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		ingester: ingester,
		lister:   lister,
		logger:   logger,
	}
}

// InitDB godoc
// @Summary Import the product feed
// @Description Fetch the third-party feed and insert transactions whose id is not stored yet
// @Tags transactions
// @Produce json
// @Success 200 {object} dto.IngestResponse
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /initdb [get]
func (h *TransactionHandler) InitDB(c *fiber.Ctx) error {
	resp, err := h.ingester.Ingest(c.UserContext())
	if err != nil {
		h.logger.Error("Ingestion failed", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// ListTransactions godoc
// @Summary List transactions
// @Description Transactions ordered by id, optionally filtered by title and paginated
// @Tags transactions
// @Produce json
// @Param page query int false "Page number, starting at 1"
// @Param limit query int false "Page size"
// @Param search query string false "Case-insensitive title substring"
// @Success 200 {object} dto.TransactionListResponse
// @Header 200 {integer} X-Total-Count "Number of matching transactions"
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /getAll [get]
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	page, err := optionalInt(c, "page")
	if err != nil {
		return respondError(c, err)
	}
	limit, err := optionalInt(c, "limit")
	if err != nil {
		return respondError(c, err)
	}

	resp, err := h.lister.List(c.UserContext(), service.ListParams{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
	})
	if err != nil {
		h.logger.Error("Failed to list transactions", zap.Error(err))
		return respondError(c, err)
	}

	c.Set("X-Total-Count", strconv.FormatInt(resp.TotalItems, 10))
	return c.JSON(resp)
}

func optionalInt(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", service.ErrValidation, key)
	}
	return &n, nil
}
