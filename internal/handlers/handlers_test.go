package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"banklet/internal/config"
	"banklet/internal/models"
	"banklet/internal/services/transfer"
	"banklet/internal/utils"
	"banklet/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Transfer(ctx context.Context, req transfer.Request) (*transfer.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.Result), args.Error(1)
}

func (m *MockTransferService) GetTransfer(ctx context.Context, identity models.Identity, id uuid.UUID) (*transfer.Details, error) {
	args := m.Called(ctx, identity, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.Details), args.Error(1)
}

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccount(ctx context.Context, identity models.Identity, id uuid.UUID) (*models.Account, error) {
	args := m.Called(ctx, identity, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, identity models.Identity) ([]*models.Account, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

func (m *MockAccountService) FindAccountsByNamePrefix(ctx context.Context, identity models.Identity, term string) ([]*models.Account, error) {
	args := m.Called(ctx, identity, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

func (m *MockAccountService) GetTransactionHistory(ctx context.Context, identity models.Identity, accountID uuid.UUID) ([]*models.TransactionRecord, error) {
	args := m.Called(ctx, identity, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TransactionRecord), args.Error(1)
}

func (m *MockAccountService) ChangePassword(ctx context.Context, identity models.Identity, oldPassword, newPassword string) error {
	return m.Called(ctx, identity, oldPassword, newPassword).Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, input *validation.SignupInput) (*models.Account, string, string, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*models.Account), args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.Account, string, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*models.Account), args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, accountID uuid.UUID) error {
	return m.Called(ctx, accountID).Error(0)
}

// withIdentity stands in for the auth middleware.
func withIdentity(identity models.Identity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(utils.LocalsIdentity, identity)
		return c.Next()
	}
}

func do(t *testing.T, app *fiber.App, method, path, body string, headers map[string]string) (int, map[string]interface{}, http.Header) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out, resp.Header
}

func TestTransferHandler_Create(t *testing.T) {
	identity := models.Identity{AccountID: uuid.New(), Role: models.RoleStandard}
	svc := new(MockTransferService)
	app := fiber.New()
	h := NewTransferHandler(svc)
	app.Post("/transfers", withIdentity(identity), h.CreateTransfer)

	expected := transfer.Request{
		SenderID:               identity.AccountID,
		RecipientAccountNumber: "22222222",
		Amount:                 decimal.NewFromInt(100),
		Currency:               "EUR",
		IdempotencyKey:         "abc",
	}
	svc.On("Transfer", mock.Anything, mock.MatchedBy(func(r transfer.Request) bool {
		return r.SenderID == expected.SenderID &&
			r.RecipientAccountNumber == expected.RecipientAccountNumber &&
			r.Amount.Equal(expected.Amount) &&
			r.Currency == expected.Currency &&
			r.IdempotencyKey == expected.IdempotencyKey
	})).Return(&transfer.Result{TransferID: uuid.New(), IdempotencyKey: "abc", AmountCredited: 89, AmountDebited: 89}, nil).Once()

	status, body, header := do(t, app, "POST", "/transfers",
		`{"recipient_account_number":"22222222","amount":100,"currency":"EUR"}`,
		map[string]string{IdempotencyHeader: "abc"})

	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, float64(89), body["amount_credited"])
	assert.Equal(t, "abc", header.Get(IdempotencyHeader))
	svc.AssertExpectations(t)
}

func TestTransferHandler_Replay(t *testing.T) {
	svc := new(MockTransferService)
	app := fiber.New()
	app.Post("/transfers", withIdentity(models.Identity{AccountID: uuid.New()}), NewTransferHandler(svc).CreateTransfer)

	svc.On("Transfer", mock.Anything, mock.Anything).Return(&transfer.Result{IdempotencyKey: "k", Replayed: true}, nil)

	status, body, _ := do(t, app, "POST", "/transfers", `{"recipient_account_number":"22222222","amount":"5","currency":"USD"}`, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["replayed"])
}

func TestTransferHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "bad json", body: `{`, wantStatus: fiber.StatusBadRequest},
		{name: "validation", body: `{"recipient_account_number":"1","amount":0}`, wantStatus: fiber.StatusUnprocessableEntity},
		{
			name:       "recipient not found",
			body:       `{"recipient_account_number":"99999999","amount":10,"currency":"USD"}`,
			err:        &transfer.Error{Kind: transfer.KindRecipientNotFound},
			wantStatus: fiber.StatusNotFound,
			wantCode:   "recipient_not_found",
		},
		{
			name:       "insufficient funds",
			body:       `{"recipient_account_number":"22222222","amount":10,"currency":"USD"}`,
			err:        &transfer.Error{Kind: transfer.KindInsufficientFunds},
			wantStatus: fiber.StatusUnprocessableEntity,
			wantCode:   "insufficient_funds",
		},
		{
			name:       "persistence",
			body:       `{"recipient_account_number":"22222222","amount":10,"currency":"USD"}`,
			err:        &transfer.Error{Kind: transfer.KindPersistence, Leg: transfer.LegSender, Err: errors.New("db gone")},
			wantStatus: fiber.StatusInternalServerError,
			wantCode:   "persistence_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockTransferService)
			if tt.err != nil {
				svc.On("Transfer", mock.Anything, mock.Anything).Return(nil, tt.err)
			}
			app := fiber.New()
			app.Post("/transfers", withIdentity(models.Identity{AccountID: uuid.New()}), NewTransferHandler(svc).CreateTransfer)

			status, body, _ := do(t, app, "POST", "/transfers", tt.body, nil)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["code"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestTransferHandler_RejectsLongIdempotencyKey(t *testing.T) {
	svc := new(MockTransferService)
	app := fiber.New()
	app.Post("/transfers", withIdentity(models.Identity{AccountID: uuid.New()}), NewTransferHandler(svc).CreateTransfer)

	body := `{"recipient_account_number":"22222222","amount":10,"currency":"USD"}`
	status, resp, _ := do(t, app, "POST", "/transfers", body,
		map[string]string{IdempotencyHeader: strings.Repeat("k", models.MaxIdempotencyKeyLength+1)})

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, resp["error"], IdempotencyHeader)
	svc.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything)
}

func TestTransferHandler_Get(t *testing.T) {
	identity := models.Identity{AccountID: uuid.New()}
	svc := new(MockTransferService)
	app := fiber.New()
	app.Get("/transfers/:id", withIdentity(identity), NewTransferHandler(svc).GetTransfer)

	id := uuid.New()
	svc.On("GetTransfer", mock.Anything, identity, id).
		Return(&transfer.Details{Intent: &models.TransferIntent{ID: id, Status: models.TransferStatusCommitted}}, nil)
	other := uuid.New()
	svc.On("GetTransfer", mock.Anything, identity, other).Return(nil, &transfer.Error{Kind: transfer.KindForbidden})

	status, body, _ := do(t, app, "GET", "/transfers/"+id.String(), "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "committed", body["intent"].(map[string]interface{})["status"])

	status, _, _ = do(t, app, "GET", "/transfers/"+other.String(), "", nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _, _ = do(t, app, "GET", "/transfers/nope", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAccountHandler(t *testing.T) {
	identity := models.Identity{AccountID: uuid.New(), Role: models.RoleStandard}
	svc := new(MockAccountService)
	h := NewAccountHandler(svc)
	app := fiber.New()
	app.Use(withIdentity(identity))
	app.Get("/me", h.Me)
	app.Get("/accounts", h.ListAccounts)
	app.Get("/accounts/search", h.SearchAccounts)
	app.Get("/accounts/:id/transactions", h.GetTransactionHistory)

	me := &models.Account{ID: identity.AccountID, AccountNumber: "11111111", FirstName: "Ada", Balance: 911, Password: "hash"}
	svc.On("GetAccount", mock.Anything, identity, identity.AccountID).Return(me, nil)
	svc.On("ListAccounts", mock.Anything, identity).Return([]*models.Account{me}, nil)
	svc.On("FindAccountsByNamePrefix", mock.Anything, identity, "ad").Return([]*models.Account{me}, nil)
	svc.On("GetTransactionHistory", mock.Anything, identity, identity.AccountID).Return([]*models.TransactionRecord{
		{Amount: 89, Type: models.TransactionTypeDebit, Currency: "EUR", Timestamp: time.Now()},
	}, nil)

	status, body, _ := do(t, app, "GET", "/me", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(911), body["balance"])
	assert.NotContains(t, body, "password")

	status, body, _ = do(t, app, "GET", "/accounts", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["accounts"], 1)

	status, _, _ = do(t, app, "GET", "/accounts/search?q=ad", "", nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, body, _ = do(t, app, "GET", "/accounts/"+identity.AccountID.String()+"/transactions", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	rows := body["transactions"].([]interface{})
	require.Len(t, rows, 1)
	assert.Equal(t, "-89", rows[0].(map[string]interface{})["signed_amount"])

	svc.AssertExpectations(t)
}

func TestAccountHandler_HistoryHugePage(t *testing.T) {
	identity := models.Identity{AccountID: uuid.New(), Role: models.RoleStandard}
	svc := new(MockAccountService)
	app := fiber.New()
	app.Get("/accounts/:id/transactions", withIdentity(identity), NewAccountHandler(svc).GetTransactionHistory)

	records := make([]*models.TransactionRecord, 0, 6)
	for i := 0; i < 6; i++ {
		records = append(records, &models.TransactionRecord{Amount: int64(i + 1), Type: models.TransactionTypeCredit})
	}
	svc.On("GetTransactionHistory", mock.Anything, identity, identity.AccountID).Return(records, nil)

	path := "/accounts/" + identity.AccountID.String() + "/transactions"
	status, body, _ := do(t, app, "GET", path+"?page=4611686018427387904&limit=4", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["transactions"])

	status, body, _ = do(t, app, "GET", path+"?page=2&limit=4", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["transactions"], 2)
	assert.Equal(t, float64(6), body["pagination"].(map[string]interface{})["total"])
}

func TestAuthHandler_Login(t *testing.T) {
	svc := new(MockAuthService)
	app := fiber.New()
	h := NewAuthHandler(svc, config.JWTConfig{AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour}, false)
	app.Post("/login", h.LoginUser)

	acct := &models.Account{ID: uuid.New(), Email: "ada@example.com", Role: models.RoleStandard}
	svc.On("Login", mock.Anything, "ada@example.com", "pw!").Return(acct, "access", "refresh", nil)

	status, body, header := do(t, app, "POST", "/login", `{"email":"ada@example.com","password":"pw!"}`, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "access", body["access_token"])
	assert.Contains(t, header.Values("Set-Cookie")[0], "access_token=access")

	status, _, _ = do(t, app, "POST", "/login", `{"email":"","password":""}`, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAuthHandler_Signup(t *testing.T) {
	svc := new(MockAuthService)
	app := fiber.New()
	app.Post("/signup", NewAuthHandler(svc, config.JWTConfig{}, false).Signup)

	acct := &models.Account{ID: uuid.New(), AccountNumber: "12345678", Email: "ada@example.com"}
	svc.On("Signup", mock.Anything, mock.MatchedBy(func(in *validation.SignupInput) bool {
		return in.Email == "ada@example.com" && in.OpeningBalance.Equal(decimal.NewFromInt(50))
	})).Return(acct, "a", "r", nil)

	status, body, _ := do(t, app, "POST", "/signup",
		`{"first_name":"Ada","email":"ada@example.com","password":"pw!pw!pw!","currency":"USD","account_balance":50}`, nil)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "12345678", body["account"].(map[string]interface{})["account_number"])
}

func TestHealthHandler(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("down") })

	app := fiber.New()
	app.Get("/healthy", NewHealthHandler(ok, ok).HealthCheck)
	app.Get("/no-redis", NewHealthHandler(ok, nil).HealthCheck)
	app.Get("/db-down", NewHealthHandler(down, ok).HealthCheck)

	status, body, _ := do(t, app, "GET", "/healthy", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	_, body, _ = do(t, app, "GET", "/no-redis", "", nil)
	assert.Equal(t, "disabled", body["services"].(map[string]interface{})["redis"])

	status, body, _ = do(t, app, "GET", "/db-down", "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "degraded", body["status"])
}
