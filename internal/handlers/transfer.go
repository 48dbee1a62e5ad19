package handlers

import (
	"fmt"
	"strings"

	"banklet/internal/models"
	"banklet/internal/services/transfer"
	"banklet/internal/utils"
	"banklet/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// IdempotencyHeader names the client-chosen key that makes a transfer safe to retry.
const IdempotencyHeader = "Idempotency-Key"

// TransferHandler exposes P2P transfer endpoints.
type TransferHandler struct {
	service transfer.Service
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(s transfer.Service) *TransferHandler { return &TransferHandler{service: s} }

// CreateTransfer handles POST /transfers.
func (h *TransferHandler) CreateTransfer(c *fiber.Ctx) error {
	identity, err := utils.GetIdentity(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	var input validation.TransferInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request")
	}

	v := validation.New()
	v.Transfer(&input)
	if !v.Valid() {
		return utils.ValidationFailed(c, v.Errors)
	}

	key := c.Get(IdempotencyHeader)
	if len(key) > models.MaxIdempotencyKeyLength {
		return utils.BadRequest(c, fmt.Sprintf("%s must be at most %d characters", IdempotencyHeader, models.MaxIdempotencyKeyLength))
	}

	result, err := h.service.Transfer(c.UserContext(), transfer.Request{
		SenderID:               identity.AccountID,
		RecipientAccountNumber: strings.TrimSpace(input.RecipientAccountNumber),
		Amount:                 input.Amount,
		Currency:               input.Currency,
		IdempotencyKey:         key,
	})
	if err != nil {
		return respondError(c, err)
	}

	c.Set(IdempotencyHeader, result.IdempotencyKey)
	if result.Replayed {
		return utils.Success(c, result)
	}
	return utils.Created(c, result)
}

// GetTransfer handles GET /transfers/:id.
func (h *TransferHandler) GetTransfer(c *fiber.Ctx) error {
	identity, err := utils.GetIdentity(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid transfer id")
	}

	details, err := h.service.GetTransfer(c.UserContext(), identity, id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, details)
}
