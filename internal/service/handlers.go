// Package service contains HTTP handler implementations for the item vault API endpoints.
// It orchestrates request parsing, calls the underlying business logic in the app package,
// handles errors (including database-specific errors), and writes appropriate HTTP responses.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"item_vault/internal/app"
	"item_vault/internal/models"
	"item_vault/internal/pkg/auth"
	"item_vault/internal/pkg/logger"
	"item_vault/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const requestTimeout = 10 * time.Second

// handlers aggregates dependencies needed by HTTP handlers,
// including the application business logic and logger.
type handlers struct {
	app *app.App
	log *logger.Logger
}

// newHandlers initializes a new handlers instance with the provided app and logger dependencies.
func newHandlers(app *app.App, l *logger.Logger) *handlers {
	return &handlers{app: app, log: l}
}

// principalFromRequest extracts the authenticated principal stored by the JWT middleware.
// It writes an unauthorized response and returns false if no principal is present.
func principalFromRequest(res http.ResponseWriter, req *http.Request) (models.Principal, bool) {
	principal, ok := auth.PrincipalFromContext(req.Context())
	if !ok || principal.ID == 0 {
		writeErrorResponse(res, "unauthorized", http.StatusUnauthorized)
		return models.Principal{}, false
	}
	return principal, true
}

// readJSONBody reads and unmarshals the request body into dst.
// It writes a bad-request response and returns false on failure.
func readJSONBody(res http.ResponseWriter, req *http.Request, dst interface{}) bool {
	requestBody, err := io.ReadAll(req.Body)
	if err != nil {
		writeErrorResponse(res, err.Error(), http.StatusBadRequest)
		return false
	}
	if err = json.Unmarshal(requestBody, dst); err != nil {
		writeErrorResponse(res, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// itemIDFromRequest parses the {id} URL parameter.
// It writes a bad-request response and returns false on failure.
func itemIDFromRequest(res http.ResponseWriter, req *http.Request) (int32, bool) {
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 32)
	if err != nil {
		writeErrorResponse(res, "invalid item id", http.StatusBadRequest)
		return 0, false
	}
	return int32(id), true
}

// formatValidationError formats validator failures into a user-displayable
// message without leaking internal struct names.
func formatValidationError(validationErrors validator.ValidationErrors) string {
	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		field := strings.ToLower(fieldError.Field())
		switch fieldError.Tag() {
		case "required":
			messages = append(messages, field+" is required")
		case "min":
			messages = append(messages, field+" must be at least "+fieldError.Param()+" characters")
		case "oneof":
			messages = append(messages, field+" must be one of: "+fieldError.Param())
		default:
			messages = append(messages, field+" is invalid")
		}
	}
	return strings.Join(messages, "; ")
}

// writeDomainError maps domain and validation errors onto HTTP responses.
// Unexpected errors are fatal to the current operation only and surface as a
// generic server error.
func writeDomainError(res http.ResponseWriter, err error) {
	var validationErrors validator.ValidationErrors
	var pgError *pgconn.PgError

	switch {
	case errors.As(err, &validationErrors):
		writeErrorResponse(res, formatValidationError(validationErrors), http.StatusBadRequest)
	case errors.Is(err, storage.ErrInvalidCredentials):
		writeErrorResponse(res, "invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, app.ErrPermissionDenied):
		writeErrorResponse(res, "admin access required", http.StatusForbidden)
	case errors.Is(err, app.ErrInvalidQuantity):
		writeErrorResponse(res, "quantity must be positive", http.StatusBadRequest)
	case errors.Is(err, storage.ErrSelfTransfer):
		writeErrorResponse(res, "cannot transfer to yourself", http.StatusBadRequest)
	case errors.Is(err, storage.ErrInsufficientQuantity):
		writeErrorResponse(res, "insufficient items", http.StatusBadRequest)
	case errors.Is(err, storage.ErrRecipientNotFound):
		writeErrorResponse(res, "recipient user not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrUserNotFound):
		writeErrorResponse(res, "user not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrItemNotFound):
		writeErrorResponse(res, "item not found", http.StatusNotFound)
	case errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation:
		writeErrorResponse(res, "username already exists", http.StatusBadRequest)
	default:
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
	}
}

// writeJSONResponse marshals payload and writes it with the given status code.
func writeJSONResponse(res http.ResponseWriter, payload interface{}, statusCode int) {
	result, err := json.Marshal(payload)
	if err != nil {
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(statusCode)
	res.Write(result)
}

// loginHandler handles user authentication requests.
// It reads the request body, invokes the login process, and returns a JSON
// response with a token and the authenticated principal.
func (handlers *handlers) loginHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	var authRequest models.AuthRequest
	if !readJSONBody(res, req, &authRequest) {
		return
	}

	authResponse, err := handlers.app.ProcessLogin(ctx, authRequest)
	if err != nil {
		writeDomainError(res, err)
		return
	}

	writeJSONResponse(res, authResponse, http.StatusOK)
}

// registerHandler handles new account registration.
// Registration always creates a player account; duplicate usernames are
// rejected via the unique-violation error from the database.
func (handlers *handlers) registerHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	var registerRequest models.RegisterRequest
	if !readJSONBody(res, req, &registerRequest) {
		return
	}

	authResponse, err := handlers.app.ProcessRegister(ctx, registerRequest)
	if err != nil {
		writeDomainError(res, err)
		return
	}

	writeJSONResponse(res, authResponse, http.StatusCreated)
}

// listUsersHandler returns every account in the directory. Admin only.
func (handlers *handlers) listUsersHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	principal, ok := principalFromRequest(res, req)
	if !ok {
		return
	}

	accounts, err := handlers.app.ProcessListUsers(ctx, principal)
	if err != nil {
		writeDomainError(res, err)
		return
	}

	writeJSONResponse(res, accounts, http.StatusOK)
}

// currentUserHandler returns the caller's own account record.
func (handlers *handlers) currentUserHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	principal, ok := principalFromRequest(res, req)
	if !ok {
		return
	}

	account, err := handlers.app.ProcessCurrentUser(ctx, principal)
	if err != nil {
		writeDomainError(res, err)
		return
	}

	writeJSONResponse(res, account, http.StatusOK)
}

// listItemsHandler returns the full item catalog, newest first.
func (handlers *handlers) listItemsHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	items, err := handlers.app.ProcessListItems(ctx)
	if err != nil {
		writeDomainError(res, err)
		return
	}

	writeJSONResponse(res, items, http.StatusOK)
}

// getItemHandler returns a single catalog item by id.
func (handlers *handlers) getItemHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	itemID, ok := itemIDFromRequest(res, req)
	if !ok {
		return
	}

	item, err := handlers.app.ProcessGetItem(ctx, itemID)
	if err != nil {
		writeDomainError(res, err)
		return
	}

	writeJSONResponse(res, item, http.StatusOK)
}

// createItemHandler creates a new catalog item. Admin only.
func (handlers *handlers) createItemHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	principal, ok := principalFromRequest(res, req)
	if !ok {
		return
	}

	var itemInput models.ItemInput
	if !readJSONBody(res, req, &itemInput) {
		return
	}

	item, err := handlers.app.ProcessCreateItem(ctx, principal, itemInput)
	if err != nil {
		writeDomainError(res, err)
		return
	}

	writeJSONResponse(res, item, http.StatusCreated)
}

// updateItemHandler replaces all mutable fields of a catalog item. Admin only.
func (handlers *handlers) updateItemHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	principal, ok := principalFromRequest(res, req)
	if !ok {
		return
	}

	itemID, ok := itemIDFromRequest(res, req)
	if !ok {
		return
	}

	var itemInput models.ItemInput
	if !readJSONBody(res, req, &itemInput) {
		return
	}

	item, err := handlers.app.ProcessUpdateItem(ctx, principal, itemID, itemInput)
	if err != nil {
		writeDomainError(res, err)
		return
	}

	writeJSONResponse(res, item, http.StatusOK)
}

// deleteItemHandler deletes a catalog item. Admin only.
func (handlers *handlers) deleteItemHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	principal, ok := principalFromRequest(res, req)
	if !ok {
		return
	}

	itemID, ok := itemIDFromRequest(res, req)
	if !ok {
		return
	}

	if err := handlers.app.ProcessDeleteItem(ctx, principal, itemID); err != nil {
		writeDomainError(res, err)
		return
	}

	writeJSONResponse(res, map[string]string{"message": "item deleted successfully"}, http.StatusOK)
}

// inventoryHandler returns the caller's inventory rows joined with item metadata.
func (handlers *handlers) inventoryHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	principal, ok := principalFromRequest(res, req)
	if !ok {
		return
	}

	inventory, err := handlers.app.ProcessInventory(ctx, principal)
	if err != nil {
		writeDomainError(res, err)
		return
	}

	writeJSONResponse(res, inventory, http.StatusOK)
}

// grantItemHandler credits items to a user's inventory. Admin only.
func (handlers *handlers) grantItemHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	principal, ok := principalFromRequest(res, req)
	if !ok {
		return
	}

	var grantRequest models.GrantRequest
	if !readJSONBody(res, req, &grantRequest) {
		return
	}

	if err := handlers.app.ProcessGrantItem(ctx, principal, grantRequest); err != nil {
		writeDomainError(res, err)
		return
	}

	writeJSONResponse(res, map[string]string{"message": "item added to inventory"}, http.StatusCreated)
}

// listTransfersHandler returns the transfer history visible to the caller:
// all records for admins, own records for players.
func (handlers *handlers) listTransfersHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	principal, ok := principalFromRequest(res, req)
	if !ok {
		return
	}

	transfers, err := handlers.app.ProcessListTransfers(ctx, principal)
	if err != nil {
		writeDomainError(res, err)
		return
	}

	writeJSONResponse(res, transfers, http.StatusOK)
}

// transferHandler processes item transfer requests between users.
func (handlers *handlers) transferHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	principal, ok := principalFromRequest(res, req)
	if !ok {
		return
	}

	var transferRequest models.TransferRequest
	if !readJSONBody(res, req, &transferRequest) {
		return
	}

	record, err := handlers.app.ProcessTransfer(ctx, principal, transferRequest)
	if err != nil {
		writeDomainError(res, err)
		return
	}

	writeJSONResponse(res, record, http.StatusCreated)
}

// statisticsHandler returns the aggregate counts. Admin only.
func (handlers *handlers) statisticsHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	principal, ok := principalFromRequest(res, req)
	if !ok {
		return
	}

	statistics, err := handlers.app.ProcessStatistics(ctx, principal)
	if err != nil {
		writeDomainError(res, err)
		return
	}

	writeJSONResponse(res, statistics, http.StatusOK)
}

func writeErrorResponse(res http.ResponseWriter, errorInfo string, statusCode int) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(statusCode)
	json.NewEncoder(res).Encode(models.ErrorResponse{Error: errorInfo})
}
