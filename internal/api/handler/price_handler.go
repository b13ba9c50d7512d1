package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/recharge-store-backend/internal/domain/game"
	"github.com/recharge-store-backend/internal/domain/pricing"
	"github.com/recharge-store-backend/internal/service"
)

// PriceHandler handles HTTP requests for the price configuration
type PriceHandler struct {
	priceService service.PriceService
	logger       *slog.Logger
}

// NewPriceHandler creates a new price handler
func NewPriceHandler(logger *slog.Logger, priceService service.PriceService) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
		logger:       logger,
	}
}

// Get returns a game's current price table, served from the cache
func (h *PriceHandler) Get(c *gin.Context) {
	g := game.Type(c.Param("game"))

	table, err := h.priceService.Get(c.Request.Context(), g)
	if err != nil {
		var unknownGame game.ErrUnknownGame
		if errors.As(err, &unknownGame) {
			RespondNotFound(c, "Unknown game")
			return
		}
		h.logger.Error("Failed to get prices", "game", string(g), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapTableToResponse(g, table))
}

// Put replaces a game's price table and invalidates the cache
func (h *PriceHandler) Put(c *gin.Context) {
	g := game.Type(c.Param("game"))

	var req PriceTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	table := make(pricing.Table, len(req.Prices))
	for key, raw := range req.Prices {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			RespondBadRequest(c, "Invalid price for denomination")
			return
		}
		table[key] = price
	}

	if err := h.priceService.Set(c.Request.Context(), g, table); err != nil {
		var unknownGame game.ErrUnknownGame
		switch {
		case errors.As(err, &unknownGame):
			RespondNotFound(c, "Unknown game")
		case errors.Is(err, pricing.ErrInvalidPrice{}):
			RespondUnprocessable(c, "INVALID_PRICE", err.Error())
		default:
			h.logger.Error("Failed to set prices", "game", string(g), "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, mapTableToResponse(g, table))
}

// mapTableToResponse maps a price table to a response DTO
func mapTableToResponse(g game.Type, table pricing.Table) PriceTableResponse {
	prices := make(map[int]string, len(table))
	for key, price := range table {
		prices[key] = price.StringFixed(2)
	}
	return PriceTableResponse{Game: string(g), Prices: prices}
}
