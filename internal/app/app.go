// Package app provides the core business logic for the item vault application.
// It handles authentication, registration, catalog management, inventory grants,
// item transfers, and statistics. Each operation performs its own capability
// check against the caller's principal; the storage layer is never exposed to
// callers directly.
package app

import (
	"context"
	"errors"

	"item_vault/internal/models"
	"item_vault/internal/pkg/auth"
	"item_vault/internal/pkg/logger"
	"item_vault/internal/pkg/metrics"
	"item_vault/internal/storage"

	"github.com/go-playground/validator/v10"
)

// Predefined errors for request-level failures.
var (
	// ErrPermissionDenied indicates a non-admin principal attempting an admin operation.
	ErrPermissionDenied = errors.New("app: admin access required")
	// ErrInvalidQuantity indicates a non-positive quantity in a grant or transfer.
	ErrInvalidQuantity = errors.New("app: quantity must be positive")
)

// App encapsulates the application logic and dependencies required to process requests.
// It interacts with the storage layer and uses a logger for error and activity logging.
type App struct {
	db       storage.Storage     // Database storage layer for persistent data operations.
	validate *validator.Validate // Request payload validator.
	log      *logger.Logger      // Logger for logging application events and errors.
}

// NewApp creates and returns a new instance of App with the provided storage and logger dependencies.
func NewApp(db storage.Storage, log *logger.Logger) *App {
	return &App{db: db, validate: validator.New(), log: log}
}

// requireAdmin returns ErrPermissionDenied unless the principal holds the admin role.
func requireAdmin(principal models.Principal) error {
	if principal.Role != models.RoleAdmin {
		return ErrPermissionDenied
	}
	return nil
}

// authResponse issues a token for the account and assembles the auth payload.
func authResponse(account *models.Account) (*models.AuthResponse, error) {
	principal := models.Principal{
		ID:       account.ID,
		Username: account.Username,
		Role:     account.Role,
	}

	token, err := auth.GenerateToken(principal)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: principal}, nil
}

// ProcessLogin authenticates a user by verifying credentials and generating a token.
func (app *App) ProcessLogin(ctx context.Context, req models.AuthRequest) (*models.AuthResponse, error) {
	if err := app.validate.Struct(req); err != nil {
		return nil, err
	}

	account, err := app.db.CheckUser(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	return authResponse(account)
}

// ProcessRegister creates a new player account and generates a token for it.
// Registration always produces the player role; the admin account is seeded
// at startup and never created through this path.
func (app *App) ProcessRegister(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if err := app.validate.Struct(req); err != nil {
		return nil, err
	}

	account, err := app.db.CreateUser(ctx, req.Username, req.Password, models.RolePlayer)
	if err != nil {
		return nil, err
	}

	return authResponse(account)
}

// ProcessListUsers returns every account in the directory. Admin only.
func (app *App) ProcessListUsers(ctx context.Context, principal models.Principal) ([]models.Account, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	return app.db.ListUsers(ctx)
}

// ProcessCurrentUser returns the caller's own account record.
func (app *App) ProcessCurrentUser(ctx context.Context, principal models.Principal) (*models.Account, error) {
	return app.db.GetUser(ctx, principal.ID)
}

// ProcessListItems returns the full item catalog.
func (app *App) ProcessListItems(ctx context.Context) ([]models.Item, error) {
	return app.db.ListItems(ctx)
}

// ProcessGetItem returns a single catalog item.
func (app *App) ProcessGetItem(ctx context.Context, itemID int32) (*models.Item, error) {
	return app.db.GetItem(ctx, itemID)
}

// ProcessCreateItem creates a catalog item. Admin only.
func (app *App) ProcessCreateItem(ctx context.Context, principal models.Principal, input models.ItemInput) (*models.Item, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := app.validate.Struct(input); err != nil {
		return nil, err
	}
	return app.db.CreateItem(ctx, input)
}

// ProcessUpdateItem replaces all mutable fields of a catalog item. Admin only.
func (app *App) ProcessUpdateItem(ctx context.Context, principal models.Principal, itemID int32, input models.ItemInput) (*models.Item, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := app.validate.Struct(input); err != nil {
		return nil, err
	}
	return app.db.UpdateItem(ctx, itemID, input)
}

// ProcessDeleteItem deletes a catalog item unconditionally. Admin only.
func (app *App) ProcessDeleteItem(ctx context.Context, principal models.Principal, itemID int32) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	return app.db.DeleteItem(ctx, itemID)
}

// ProcessInventory returns the caller's ledger rows joined with item metadata.
func (app *App) ProcessInventory(ctx context.Context, principal models.Principal) ([]models.InventoryEntry, error) {
	return app.db.GetInventory(ctx, principal.ID)
}

// ProcessGrantItem credits items to a user's inventory. Admin only; grants
// are credit-only, there is no debit counterpart.
func (app *App) ProcessGrantItem(ctx context.Context, principal models.Principal, req models.GrantRequest) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	if req.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if err := app.validate.Struct(req); err != nil {
		return err
	}

	if err := app.db.GrantItem(ctx, req.UserID, req.ItemID, req.Quantity); err != nil {
		return err
	}

	metrics.ItemsGranted.Inc()
	return nil
}

// ProcessTransfer moves items from the caller to the named recipient.
// Validation failures and storage rejections leave all ledger state unchanged.
func (app *App) ProcessTransfer(ctx context.Context, principal models.Principal, req models.TransferRequest) (*models.TransferRecord, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if err := app.validate.Struct(req); err != nil {
		return nil, err
	}

	record, err := app.db.TransferItem(ctx, principal.ID, req.ToUsername, req.ItemID, req.Quantity)
	if err != nil {
		return nil, err
	}

	metrics.TransfersCompleted.Inc()
	return record, nil
}

// ProcessListTransfers returns the transfer history visible to the caller:
// every record for admins, own records (as sender or receiver) for players.
func (app *App) ProcessListTransfers(ctx context.Context, principal models.Principal) ([]models.TransferRecord, error) {
	if principal.Role == models.RoleAdmin {
		return app.db.ListAllTransfers(ctx)
	}
	return app.db.ListUserTransfers(ctx, principal.ID)
}

// ProcessStatistics returns the aggregate counts. Admin only.
func (app *App) ProcessStatistics(ctx context.Context, principal models.Principal) (*models.Statistics, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	return app.db.GetStatistics(ctx)
}
