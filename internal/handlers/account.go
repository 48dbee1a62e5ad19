package handlers

import (
	"banklet/internal/services/account"
	"banklet/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AccountHandler exposes account reads and the caller's own profile.
type AccountHandler struct {
	service account.Service
}

func NewAccountHandler(s account.Service) *AccountHandler {
	return &AccountHandler{service: s}
}

// Me handles GET /me
func (h *AccountHandler) Me(c *fiber.Ctx) error {
	identity, err := utils.GetIdentity(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}
	acct, err := h.service.GetAccount(c.UserContext(), identity, identity.AccountID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, acct)
}

// ListAccounts handles GET /accounts
func (h *AccountHandler) ListAccounts(c *fiber.Ctx) error {
	identity, err := utils.GetIdentity(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}
	accounts, err := h.service.ListAccounts(c.UserContext(), identity)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"accounts": accounts})
}

// SearchAccounts handles GET /accounts/search?q=
func (h *AccountHandler) SearchAccounts(c *fiber.Ctx) error {
	identity, err := utils.GetIdentity(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}
	accounts, err := h.service.FindAccountsByNamePrefix(c.UserContext(), identity, c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"accounts": accounts})
}

// GetAccount handles GET /accounts/:id
func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	identity, err := utils.GetIdentity(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid account id")
	}
	acct, err := h.service.GetAccount(c.UserContext(), identity, id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, acct)
}

// GetTransactionHistory handles GET /accounts/:id/transactions?page=&limit=
func (h *AccountHandler) GetTransactionHistory(c *fiber.Ctx) error {
	identity, err := utils.GetIdentity(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid account id")
	}

	records, err := h.service.GetTransactionHistory(c.UserContext(), identity, id)
	if err != nil {
		return respondError(c, err)
	}

	page := utils.GetPagination(c, 1, utils.MaxPageLimit)
	start, end := page.Window(len(records))

	rows := make([]fiber.Map, 0, end-start)
	for _, r := range records[start:end] {
		rows = append(rows, fiber.Map{
			"id":               r.ID,
			"transfer_id":      r.TransferID,
			"transaction_type": r.Type,
			"amount":           r.Amount,
			"signed_amount":    r.SignedAmount(),
			"currency":         r.Currency,
			"description":      r.Description,
			"running_balance":  r.RunningBalance,
			"timestamp":        r.Timestamp,
		})
	}
	return utils.Success(c, fiber.Map{"transactions": rows, "pagination": page})
}

// ChangePassword handles POST /me/password
func (h *AccountHandler) ChangePassword(c *fiber.Ctx) error {
	var input struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	identity, err := utils.GetIdentity(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	if err := h.service.ChangePassword(c.UserContext(), identity, input.OldPassword, input.NewPassword); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "Password changed successfully"})
}
