package handlers

import (
	"errors"
	"log"

	"banklet/internal/services/account"
	"banklet/internal/services/auth"
	"banklet/internal/services/transfer"
	"banklet/internal/utils"
	"banklet/internal/validation"

	"github.com/gofiber/fiber/v2"
)

var transferStatus = map[transfer.Kind]int{
	transfer.KindInvalidAmount:         fiber.StatusUnprocessableEntity,
	transfer.KindInvalidRequest:        fiber.StatusBadRequest,
	transfer.KindRecipientNotFound:     fiber.StatusNotFound,
	transfer.KindAmbiguousRecipient:    fiber.StatusConflict,
	transfer.KindSenderNotFound:        fiber.StatusNotFound,
	transfer.KindNoConversionRate:      fiber.StatusUnprocessableEntity,
	transfer.KindRateSourceUnavailable: fiber.StatusServiceUnavailable,
	transfer.KindInsufficientFunds:     fiber.StatusUnprocessableEntity,
	transfer.KindStoreUnavailable:      fiber.StatusServiceUnavailable,
	transfer.KindPersistence:           fiber.StatusInternalServerError,
	transfer.KindLedgerWrite:           fiber.StatusInternalServerError,
	transfer.KindTransferInProgress:    fiber.StatusConflict,
	transfer.KindIdempotencyMismatch:   fiber.StatusUnprocessableEntity,
	transfer.KindIdempotencyKeyUsed:    fiber.StatusConflict,
	transfer.KindTransferNotFound:      fiber.StatusNotFound,
	transfer.KindForbidden:             fiber.StatusForbidden,
}

// httpStatusForErr maps a service error to a status code and a message safe to show.
func httpStatusForErr(err error) (int, string) {
	var terr *transfer.Error
	if errors.As(err, &terr) {
		status, ok := transferStatus[terr.Kind]
		if !ok {
			status = fiber.StatusInternalServerError
		}
		if status >= fiber.StatusInternalServerError {
			return status, string(terr.Kind)
		}
		return status, terr.Error()
	}

	switch {
	case errors.Is(err, account.ErrAccountNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, account.ErrForbidden):
		return fiber.StatusForbidden, err.Error()
	case errors.Is(err, account.ErrWrongPassword):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, auth.ErrInvalidRefreshToken), errors.Is(err, auth.ErrTokenRevoked):
		return fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, auth.ErrEmailTaken):
		return fiber.StatusConflict, err.Error()
	}
	return fiber.StatusInternalServerError, "internal error"
}

// respondError writes err using httpStatusForErr. Validation errors carry their fields.
func respondError(c *fiber.Ctx, err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return utils.ValidationFailed(c, verr.Fields)
	}

	status, message := httpStatusForErr(err)
	if status >= fiber.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
	}

	body := fiber.Map{"error": message}
	if kind := transfer.KindOf(err); kind != "" {
		body["code"] = string(kind)
	}
	return utils.Respond(c, status, body)
}
