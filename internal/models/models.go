// Package models defines the data structures used throughout the application.
// It includes the domain entities (accounts, items, inventory rows, transfer
// records) along with the request and response payloads for authentication,
// catalog management, inventory grants, and item transfers.
package models

import "time"

// Account roles. Every registered account is a player; the admin role is
// held by the seeded default administrator.
const (
	RoleAdmin  = "admin"
	RolePlayer = "player"
)

// TransferStatusCompleted is the only status a persisted transfer can have;
// rejected transfers are reported as errors and never stored.
const TransferStatusCompleted = "completed"

// Principal is the authenticated identity making a request, extracted from
// a verified token.
type Principal struct {
	ID       int32  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Account represents a user account in the directory.
type Account struct {
	ID        int32     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Item represents an item definition in the catalog. Stats is an opaque
// structured blob; no schema is enforced on its contents.
type Item struct {
	ID          int32                  `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	ItemType    string                 `json:"item_type"`
	Rarity      string                 `json:"rarity"`
	Stats       map[string]interface{} `json:"stats,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ItemInput is the payload for creating or updating a catalog item.
// Updates replace all mutable fields at once.
type ItemInput struct {
	Name        string                 `json:"name" validate:"required"`
	Description string                 `json:"description"`
	ItemType    string                 `json:"itemType" validate:"required,oneof=weapon armor accessory consumable material other"`
	Rarity      string                 `json:"rarity" validate:"omitempty,oneof=common uncommon rare epic legendary"`
	Stats       map[string]interface{} `json:"stats"`
}

// InventoryEntry is one ledger row joined with its item metadata.
// ObtainedAt records the first acquisition and is not refreshed on top-ups.
type InventoryEntry struct {
	InventoryID int32                  `json:"inventory_id"`
	ItemID      int32                  `json:"item_id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	ItemType    string                 `json:"item_type"`
	Rarity      string                 `json:"rarity"`
	Stats       map[string]interface{} `json:"stats,omitempty"`
	Quantity    int                    `json:"quantity"`
	ObtainedAt  time.Time              `json:"obtained_at"`
}

// TransferRecord is an immutable history record of a completed transfer.
// Usernames and the item name are resolved live at read time, not
// snapshotted at transfer time.
type TransferRecord struct {
	ID           int32     `json:"id"`
	FromUserID   int32     `json:"from_user_id"`
	ToUserID     int32     `json:"to_user_id"`
	ItemID       int32     `json:"item_id"`
	Quantity     int       `json:"quantity"`
	TransferDate time.Time `json:"transfer_date"`
	Status       string    `json:"status"`
	FromUsername string    `json:"from_username"`
	ToUsername   string    `json:"to_username"`
	ItemName     string    `json:"item_name"`
}

// Statistics aggregates the simple counts exposed to administrators.
type Statistics struct {
	TotalUsers          int `json:"totalUsers"`
	TotalItems          int `json:"totalItems"`
	TotalTransfers      int `json:"totalTransfers"`
	TotalInventoryUnits int `json:"totalInventoryUnits"`
}

// AuthRequest represents the login request payload.
type AuthRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// AuthResponse is returned on successful login or registration.
type AuthResponse struct {
	Token string    `json:"token"`
	User  Principal `json:"user"`
}

// GrantRequest is the admin payload for crediting items to a user.
type GrantRequest struct {
	UserID   int32 `json:"userId" validate:"required"`
	ItemID   int32 `json:"itemId" validate:"required"`
	Quantity int   `json:"quantity"`
}

// TransferRequest is the payload for transferring items to another user.
type TransferRequest struct {
	ToUsername string `json:"toUsername" validate:"required"`
	ItemID     int32  `json:"itemId" validate:"required"`
	Quantity   int    `json:"quantity"`
}

// ErrorResponse represents a generic error response payload.
type ErrorResponse struct {
	Error string `json:"error"`
}
