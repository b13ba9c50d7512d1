package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/recharge-store-backend/internal/domain/game"
	"github.com/recharge-store-backend/internal/domain/inventory"
	"github.com/recharge-store-backend/internal/service"
)

// InventoryHandler handles HTTP requests for the redemption code pool
type InventoryHandler struct {
	inventoryService service.InventoryService
	logger           *slog.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(logger *slog.Logger, inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// Create adds a redemption code to a bucket
func (h *InventoryHandler) Create(c *gin.Context) {
	var req CreateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	code, err := h.inventoryService.Create(c.Request.Context(), req.Code, game.Type(req.Game), req.Denomination)
	if err != nil {
		var (
			unknownGame  game.ErrUnknownGame
			invalidDenom game.ErrInvalidDenomination
			malformed    inventory.ErrMalformedCode
		)
		switch {
		case errors.As(err, &unknownGame):
			RespondBadRequest(c, unknownGame.Error())
		case errors.As(err, &invalidDenom):
			RespondBadRequest(c, invalidDenom.Error())
		case errors.As(err, &malformed):
			RespondUnprocessable(c, "MALFORMED_CODE", malformed.Error())
		case errors.Is(err, inventory.ErrDuplicateCode{}):
			RespondConflict(c, "Code already exists")
		default:
			h.logger.Error("Failed to create inventory code", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, mapCodeToResponse(code))
}

// GetBucket reports a bucket's remaining stock and, when requested, its codes
// in FIFO order
func (h *InventoryHandler) GetBucket(c *gin.Context) {
	g := game.Type(c.Param("game"))
	denomination, err := strconv.Atoi(c.Param("denomination"))
	if err != nil {
		RespondBadRequest(c, "Invalid denomination")
		return
	}

	count, err := h.inventoryService.Stock(c.Request.Context(), g, denomination)
	if err != nil {
		var unknownGame game.ErrUnknownGame
		if errors.As(err, &unknownGame) {
			RespondNotFound(c, "Unknown game")
			return
		}
		h.logger.Error("Failed to count stock", "game", string(g), "error", err)
		RespondInternalError(c)
		return
	}

	response := StockResponse{Game: string(g), Denomination: denomination, Count: count}

	if c.Query("include_codes") == "true" {
		var params PaginationParams
		if err := c.ShouldBindQuery(&params); err != nil {
			RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
			return
		}
		offset := (params.Page - 1) * params.PerPage
		codes, err := h.inventoryService.List(c.Request.Context(), g, denomination, params.PerPage, offset)
		if err != nil {
			h.logger.Error("Failed to list codes", "game", string(g), "error", err)
			RespondInternalError(c)
			return
		}
		response.Codes = make([]CodeResponse, 0, len(codes))
		for _, code := range codes {
			response.Codes = append(response.Codes, mapCodeToResponse(code))
		}
	}

	RespondOK(c, response)
}
