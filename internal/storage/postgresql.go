// Package storage provides primitives for connecting to and interacting with data storage systems.
// It defines the Storage interface along with a PostgreSQL implementation that manages the account
// directory, the item catalog, the per-user inventory ledger, the transfer engine, and the
// append-only transfer history.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"item_vault/internal/models"
	"item_vault/internal/pkg/logger"
	"item_vault/internal/pkg/security"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Sentinel errors surfaced by storage operations. Handlers map these onto
// user-displayable failures.
var (
	// ErrInvalidCredentials indicates an unknown username or a password mismatch.
	ErrInvalidCredentials = errors.New("storage: invalid credentials")
	// ErrUserNotFound indicates that the referenced user does not exist.
	ErrUserNotFound = errors.New("storage: user not found")
	// ErrItemNotFound indicates that the referenced catalog item does not exist.
	ErrItemNotFound = errors.New("storage: item not found")
	// ErrRecipientNotFound indicates that the transfer recipient does not exist.
	ErrRecipientNotFound = errors.New("storage: recipient not found")
	// ErrSelfTransfer indicates an attempted transfer where sender and recipient are the same user.
	ErrSelfTransfer = errors.New("storage: cannot transfer to self")
	// ErrInsufficientQuantity indicates a debit exceeding the sender's holdings.
	ErrInsufficientQuantity = errors.New("storage: insufficient quantity")
)

const (
	createUserQuery = `INSERT INTO content.users (username, password_hash, role) VALUES ($1, $2, $3) RETURNING id, created_at;`
	checkUserQuery  = `SELECT id, password_hash, role, created_at FROM content.users WHERE username = $1;`
	getUserQuery    = `SELECT id, username, role, created_at FROM content.users WHERE id = $1;`
	listUsersQuery  = `SELECT id, username, role, created_at FROM content.users ORDER BY id;`
	getUserIDQuery  = `SELECT id FROM content.users WHERE username = $1;`
	userExistsQuery = `SELECT EXISTS (SELECT 1 FROM content.users WHERE id = $1);`

	createItemQuery = `INSERT INTO content.items (name, description, item_type, rarity, stats) VALUES ($1, $2, $3, $4, $5) RETURNING id, rarity, created_at, updated_at;`
	getItemQuery    = `SELECT id, name, description, item_type, rarity, stats, created_at, updated_at FROM content.items WHERE id = $1;`
	listItemsQuery  = `SELECT id, name, description, item_type, rarity, stats, created_at, updated_at FROM content.items ORDER BY created_at DESC;`
	updateItemQuery = `UPDATE content.items SET name = $1, description = $2, item_type = $3, rarity = $4, stats = $5, updated_at = NOW() WHERE id = $6;`
	deleteItemQuery = `DELETE FROM content.items WHERE id = $1;`
	itemExistsQuery = `SELECT EXISTS (SELECT 1 FROM content.items WHERE id = $1);`

	getInventoryQuery    = `SELECT inv.id, i.id, i.name, i.description, i.item_type, i.rarity, i.stats, inv.quantity, inv.obtained_at FROM content.inventory inv JOIN content.items i ON inv.item_id = i.id WHERE inv.user_id = $1 ORDER BY inv.obtained_at DESC;`
	creditInventoryQuery = `INSERT INTO content.inventory (user_id, item_id, quantity) VALUES ($1, $2, $3) ON CONFLICT (user_id, item_id) DO UPDATE SET quantity = content.inventory.quantity + EXCLUDED.quantity;`
	lockInventoryQuery   = `SELECT quantity FROM content.inventory WHERE user_id = $1 AND item_id = $2 FOR UPDATE;`
	debitInventoryQuery  = `UPDATE content.inventory SET quantity = quantity - $1 WHERE user_id = $2 AND item_id = $3;`

	insertTransferQuery    = `INSERT INTO content.transfers (from_user_id, to_user_id, item_id, quantity) VALUES ($1, $2, $3, $4) RETURNING id;`
	getTransferQuery       = `SELECT t.id, t.from_user_id, t.to_user_id, t.item_id, t.quantity, t.transfer_date, t.status, u1.username, u2.username, i.name FROM content.transfers t JOIN content.users u1 ON t.from_user_id = u1.id JOIN content.users u2 ON t.to_user_id = u2.id JOIN content.items i ON t.item_id = i.id WHERE t.id = $1;`
	listUserTransfersQuery = `SELECT t.id, t.from_user_id, t.to_user_id, t.item_id, t.quantity, t.transfer_date, t.status, u1.username, u2.username, i.name FROM content.transfers t JOIN content.users u1 ON t.from_user_id = u1.id JOIN content.users u2 ON t.to_user_id = u2.id JOIN content.items i ON t.item_id = i.id WHERE t.from_user_id = $1 OR t.to_user_id = $1 ORDER BY t.transfer_date DESC;`
	listAllTransfersQuery  = `SELECT t.id, t.from_user_id, t.to_user_id, t.item_id, t.quantity, t.transfer_date, t.status, u1.username, u2.username, i.name FROM content.transfers t JOIN content.users u1 ON t.from_user_id = u1.id JOIN content.users u2 ON t.to_user_id = u2.id JOIN content.items i ON t.item_id = i.id ORDER BY t.transfer_date DESC;`

	countUsersQuery     = `SELECT COUNT(*) FROM content.users;`
	countItemsQuery     = `SELECT COUNT(*) FROM content.items;`
	countTransfersQuery = `SELECT COUNT(*) FROM content.transfers;`
	sumInventoryQuery   = `SELECT COALESCE(SUM(quantity), 0) FROM content.inventory;`
)

// Storage defines the methods required for data storage operations.
type Storage interface {
	// Close closes the database connection.
	Close()

	// Account directory methods.
	CheckUser(ctx context.Context, username, password string) (*models.Account, error)
	CreateUser(ctx context.Context, username, password, role string) (*models.Account, error)
	GetUser(ctx context.Context, userID int32) (*models.Account, error)
	ListUsers(ctx context.Context) ([]models.Account, error)

	// Catalog methods.
	CreateItem(ctx context.Context, input models.ItemInput) (*models.Item, error)
	GetItem(ctx context.Context, itemID int32) (*models.Item, error)
	ListItems(ctx context.Context) ([]models.Item, error)
	UpdateItem(ctx context.Context, itemID int32, input models.ItemInput) (*models.Item, error)
	DeleteItem(ctx context.Context, itemID int32) error

	// Inventory ledger methods.
	GetInventory(ctx context.Context, userID int32) ([]models.InventoryEntry, error)
	GrantItem(ctx context.Context, userID, itemID int32, quantity int) error

	// Transfer engine and history methods.
	TransferItem(ctx context.Context, fromUserID int32, toUsername string, itemID int32, quantity int) (*models.TransferRecord, error)
	ListUserTransfers(ctx context.Context, userID int32) ([]models.TransferRecord, error)
	ListAllTransfers(ctx context.Context) ([]models.TransferRecord, error)

	// Statistics method.
	GetStatistics(ctx context.Context) (*models.Statistics, error)
}

// PostgreSQL implements the Storage interface using a PostgreSQL database.
type PostgreSQL struct {
	db  *sql.DB        // Connection to the database.
	log *logger.Logger // Logger for recording events and errors.
}

// NewPostgreSQL creates a new PostgreSQL instance with the provided connection string and logger.
// It opens the connection and pings the database to ensure connectivity.
func NewPostgreSQL(configDBString string, l *logger.Logger) (*PostgreSQL, error) {
	db, err := sql.Open("pgx", configDBString)
	if err != nil {
		l.Sugar().Errorf("Failed to open a database: %s", err)
		return &PostgreSQL{db: db, log: l}, err
	}

	const defaultTimeout = 10 * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		l.Sugar().Errorf("Database ping failed: %s", err)
		return &PostgreSQL{db: db, log: l}, err
	}

	return &PostgreSQL{db: db, log: l}, nil
}

// Close closes the database connection if it is open.
func (postgresql *PostgreSQL) Close() {
	if postgresql.db != nil {
		postgresql.db.Close()
	}
}

// EnsureAdmin seeds the default administrator account if no account with
// the given username exists yet.
func (postgresql *PostgreSQL) EnsureAdmin(ctx context.Context, username, password string) error {
	var id int32
	err := postgresql.db.QueryRowContext(ctx, getUserIDQuery, username).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		postgresql.log.Sugar().Errorf("Failed to execute a query getUserIDQuery: %s", err)
		return err
	}

	_, err = postgresql.CreateUser(ctx, username, password, models.RoleAdmin)
	if err != nil {
		return err
	}
	postgresql.log.Sugar().Infof("Seeded default admin account %q", username)
	return nil
}

// CheckUser verifies the user's credentials by retrieving the stored password hash
// and checking the provided password against it. Both an unknown username and a
// password mismatch are reported as ErrInvalidCredentials.
func (postgresql *PostgreSQL) CheckUser(ctx context.Context, username, password string) (*models.Account, error) {
	account := &models.Account{Username: username}
	var encryptedPassword string

	err := postgresql.db.QueryRowContext(ctx, checkUserQuery, username).
		Scan(&account.ID, &encryptedPassword, &account.Role, &account.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query checkUserQuery: %s", err)
		return nil, err
	}

	if err := security.CheckPassword(encryptedPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}

// CreateUser registers a new account by hashing the password and inserting the account
// into the database with the given role.
func (postgresql *PostgreSQL) CreateUser(ctx context.Context, username, password, role string) (*models.Account, error) {
	encryptedPassword := security.HashPassword(password)

	account := &models.Account{Username: username, Role: role}
	err := postgresql.db.QueryRowContext(ctx, createUserQuery, username, encryptedPassword, role).
		Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query createUserQuery: %s", err)
		return nil, err
	}
	return account, nil
}

// GetUser retrieves a single account by id.
func (postgresql *PostgreSQL) GetUser(ctx context.Context, userID int32) (*models.Account, error) {
	account := &models.Account{}
	err := postgresql.db.QueryRowContext(ctx, getUserQuery, userID).
		Scan(&account.ID, &account.Username, &account.Role, &account.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query getUserQuery: %s", err)
		return nil, err
	}
	return account, nil
}

// ListUsers retrieves all accounts in the directory.
func (postgresql *PostgreSQL) ListUsers(ctx context.Context) ([]models.Account, error) {
	rows, err := postgresql.db.QueryContext(ctx, listUsersQuery)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query listUsersQuery: %s", err)
		return nil, err
	}
	defer rows.Close()

	accounts := make([]models.Account, 0)
	for rows.Next() {
		account := models.Account{}
		if err := rows.Scan(&account.ID, &account.Username, &account.Role, &account.CreatedAt); err != nil {
			postgresql.log.Sugar().Errorf("Failed to scan account in ListUsers method: %s", err)
			return nil, err
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		postgresql.log.Sugar().Errorf("The last error encountered by Rows.Scan in ListUsers method: %s", err)
		return accounts, err
	}

	return accounts, nil
}

// marshalStats serializes the opaque stats blob for storage, mapping an
// empty blob onto NULL.
func marshalStats(stats map[string]interface{}) (interface{}, error) {
	if len(stats) == 0 {
		return nil, nil
	}
	return json.Marshal(stats)
}

// scanItem reads one catalog item row, decoding nullable description and
// stats columns.
func scanItem(row interface{ Scan(...interface{}) error }) (*models.Item, error) {
	item := &models.Item{}
	var description sql.NullString
	var stats []byte

	if err := row.Scan(&item.ID, &item.Name, &description, &item.ItemType, &item.Rarity,
		&stats, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}

	item.Description = description.String
	if len(stats) > 0 {
		if err := json.Unmarshal(stats, &item.Stats); err != nil {
			return nil, err
		}
	}
	return item, nil
}

// CreateItem inserts a new catalog item. The stats blob is stored as-is;
// its contents are not interpreted.
func (postgresql *PostgreSQL) CreateItem(ctx context.Context, input models.ItemInput) (*models.Item, error) {
	stats, err := marshalStats(input.Stats)
	if err != nil {
		return nil, err
	}

	rarity := input.Rarity
	if rarity == "" {
		rarity = "common"
	}

	item := &models.Item{
		Name:        input.Name,
		Description: input.Description,
		ItemType:    input.ItemType,
		Stats:       input.Stats,
	}
	err = postgresql.db.QueryRowContext(ctx, createItemQuery,
		input.Name, nullableString(input.Description), input.ItemType, rarity, stats).
		Scan(&item.ID, &item.Rarity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query createItemQuery: %s", err)
		return nil, err
	}
	return item, nil
}

// GetItem retrieves a single catalog item by id.
func (postgresql *PostgreSQL) GetItem(ctx context.Context, itemID int32) (*models.Item, error) {
	item, err := scanItem(postgresql.db.QueryRowContext(ctx, getItemQuery, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query getItemQuery: %s", err)
		return nil, err
	}
	return item, nil
}

// ListItems retrieves all catalog items, newest first.
func (postgresql *PostgreSQL) ListItems(ctx context.Context) ([]models.Item, error) {
	rows, err := postgresql.db.QueryContext(ctx, listItemsQuery)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query listItemsQuery: %s", err)
		return nil, err
	}
	defer rows.Close()

	items := make([]models.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			postgresql.log.Sugar().Errorf("Failed to scan item in ListItems method: %s", err)
			return nil, err
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		postgresql.log.Sugar().Errorf("The last error encountered by Rows.Scan in ListItems method: %s", err)
		return items, err
	}

	return items, nil
}

// UpdateItem replaces all mutable fields of a catalog item at once.
func (postgresql *PostgreSQL) UpdateItem(ctx context.Context, itemID int32, input models.ItemInput) (*models.Item, error) {
	stats, err := marshalStats(input.Stats)
	if err != nil {
		return nil, err
	}

	rarity := input.Rarity
	if rarity == "" {
		rarity = "common"
	}

	result, err := postgresql.db.ExecContext(ctx, updateItemQuery,
		input.Name, nullableString(input.Description), input.ItemType, rarity, stats, itemID)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query updateItemQuery: %s", err)
		return nil, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute RowsAffected in updateItemQuery: %s", err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrItemNotFound
	}

	return postgresql.GetItem(ctx, itemID)
}

// DeleteItem removes a catalog item unconditionally. Inventory rows and
// transfer records referencing the item are left in place; reads that join
// on the catalog will no longer surface them.
func (postgresql *PostgreSQL) DeleteItem(ctx context.Context, itemID int32) error {
	result, err := postgresql.db.ExecContext(ctx, deleteItemQuery, itemID)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query deleteItemQuery: %s", err)
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute RowsAffected in deleteItemQuery: %s", err)
		return err
	}
	if rows == 0 {
		return ErrItemNotFound
	}
	return nil
}

// GetInventory retrieves all ledger rows for a user joined with item metadata,
// most recently obtained first.
func (postgresql *PostgreSQL) GetInventory(ctx context.Context, userID int32) ([]models.InventoryEntry, error) {
	rows, err := postgresql.db.QueryContext(ctx, getInventoryQuery, userID)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query getInventoryQuery: %s", err)
		return nil, err
	}
	defer rows.Close()

	inventory := make([]models.InventoryEntry, 0)
	for rows.Next() {
		entry := models.InventoryEntry{}
		var description sql.NullString
		var stats []byte
		if err := rows.Scan(&entry.InventoryID, &entry.ItemID, &entry.Name, &description,
			&entry.ItemType, &entry.Rarity, &stats, &entry.Quantity, &entry.ObtainedAt); err != nil {
			postgresql.log.Sugar().Errorf("Failed to scan inventory row in GetInventory method: %s", err)
			return nil, err
		}
		entry.Description = description.String
		if len(stats) > 0 {
			if err := json.Unmarshal(stats, &entry.Stats); err != nil {
				postgresql.log.Sugar().Errorf("Failed to decode item stats in GetInventory method: %s", err)
				return nil, err
			}
		}
		inventory = append(inventory, entry)
	}

	if err := rows.Err(); err != nil {
		postgresql.log.Sugar().Errorf("The last error encountered by Rows.Scan in GetInventory method: %s", err)
		return inventory, err
	}

	return inventory, nil
}

// creditInventory increments the (user, item) ledger row by quantity,
// creating the row on first acquisition. The upsert leaves obtained_at
// untouched on top-ups, preserving first-acquired semantics.
func (postgresql *PostgreSQL) creditInventory(ctx context.Context, tx *sql.Tx, userID, itemID int32, quantity int) error {
	_, err := tx.ExecContext(ctx, creditInventoryQuery, userID, itemID, quantity)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query creditInventoryQuery: %s", err)
		return err
	}
	return nil
}

// debitInventory locks the sender's ledger row and decrements it by quantity.
// A missing row or insufficient holdings fail with ErrInsufficientQuantity.
// The row lock serializes concurrent debits of the same (user, item) pair,
// so the sufficiency check cannot race with another transfer.
func (postgresql *PostgreSQL) debitInventory(ctx context.Context, tx *sql.Tx, userID, itemID int32, quantity int) error {
	var available int
	err := tx.QueryRowContext(ctx, lockInventoryQuery, userID, itemID).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInsufficientQuantity
	}
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query lockInventoryQuery: %s", err)
		return err
	}

	if available < quantity {
		return ErrInsufficientQuantity
	}

	_, err = tx.ExecContext(ctx, debitInventoryQuery, quantity, userID, itemID)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query debitInventoryQuery: %s", err)
		return err
	}
	return nil
}

// GrantItem credits a user's ledger row for an item inside a transaction,
// verifying that both the user and the item exist.
func (postgresql *PostgreSQL) GrantItem(ctx context.Context, userID, itemID int32, quantity int) error {
	tx, err := postgresql.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx, userExistsQuery, userID).Scan(&exists); err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query userExistsQuery: %s", err)
		return err
	}
	if !exists {
		return ErrUserNotFound
	}

	if err := tx.QueryRowContext(ctx, itemExistsQuery, itemID).Scan(&exists); err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query itemExistsQuery: %s", err)
		return err
	}
	if !exists {
		return ErrItemNotFound
	}

	if err := postgresql.creditInventory(ctx, tx, userID, itemID, quantity); err != nil {
		return err
	}

	return tx.Commit()
}

// TransferItem moves quantity units of an item from one user to another as a
// single unit of work: resolve the recipient, debit the sender under a row
// lock, credit the recipient, and append the history record. Either all four
// steps commit together or none of them apply.
func (postgresql *PostgreSQL) TransferItem(ctx context.Context, fromUserID int32, toUsername string, itemID int32, quantity int) (*models.TransferRecord, error) {
	tx, err := postgresql.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var toUserID int32
	err = tx.QueryRowContext(ctx, getUserIDQuery, toUsername).Scan(&toUserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecipientNotFound
	}
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query getUserIDQuery: %s", err)
		return nil, err
	}

	if toUserID == fromUserID {
		return nil, ErrSelfTransfer
	}

	if err := postgresql.debitInventory(ctx, tx, fromUserID, itemID, quantity); err != nil {
		return nil, err
	}

	if err := postgresql.creditInventory(ctx, tx, toUserID, itemID, quantity); err != nil {
		return nil, err
	}

	var transferID int32
	err = tx.QueryRowContext(ctx, insertTransferQuery, fromUserID, toUserID, itemID, quantity).Scan(&transferID)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query insertTransferQuery: %s", err)
		return nil, err
	}

	record := &models.TransferRecord{}
	err = tx.QueryRowContext(ctx, getTransferQuery, transferID).
		Scan(&record.ID, &record.FromUserID, &record.ToUserID, &record.ItemID, &record.Quantity,
			&record.TransferDate, &record.Status, &record.FromUsername, &record.ToUsername, &record.ItemName)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query getTransferQuery: %s", err)
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return record, nil
}

// scanTransfers reads joined transfer history rows.
func (postgresql *PostgreSQL) scanTransfers(rows *sql.Rows) ([]models.TransferRecord, error) {
	transfers := make([]models.TransferRecord, 0)
	for rows.Next() {
		record := models.TransferRecord{}
		if err := rows.Scan(&record.ID, &record.FromUserID, &record.ToUserID, &record.ItemID,
			&record.Quantity, &record.TransferDate, &record.Status,
			&record.FromUsername, &record.ToUsername, &record.ItemName); err != nil {
			postgresql.log.Sugar().Errorf("Failed to scan transfer record: %s", err)
			return nil, err
		}
		transfers = append(transfers, record)
	}

	if err := rows.Err(); err != nil {
		postgresql.log.Sugar().Errorf("The last error encountered by Rows.Scan in scanTransfers method: %s", err)
		return transfers, err
	}

	return transfers, nil
}

// ListUserTransfers retrieves every transfer where the user is sender or
// receiver, newest first, with usernames and item names resolved at read time.
func (postgresql *PostgreSQL) ListUserTransfers(ctx context.Context, userID int32) ([]models.TransferRecord, error) {
	rows, err := postgresql.db.QueryContext(ctx, listUserTransfersQuery, userID)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query listUserTransfersQuery: %s", err)
		return nil, err
	}
	defer rows.Close()

	return postgresql.scanTransfers(rows)
}

// ListAllTransfers retrieves the complete transfer history, newest first.
func (postgresql *PostgreSQL) ListAllTransfers(ctx context.Context) ([]models.TransferRecord, error) {
	rows, err := postgresql.db.QueryContext(ctx, listAllTransfersQuery)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query listAllTransfersQuery: %s", err)
		return nil, err
	}
	defer rows.Close()

	return postgresql.scanTransfers(rows)
}

// GetStatistics aggregates the simple counts exposed to administrators.
func (postgresql *PostgreSQL) GetStatistics(ctx context.Context) (*models.Statistics, error) {
	stats := &models.Statistics{}

	for _, count := range []struct {
		query string
		dest  *int
	}{
		{countUsersQuery, &stats.TotalUsers},
		{countItemsQuery, &stats.TotalItems},
		{countTransfersQuery, &stats.TotalTransfers},
		{sumInventoryQuery, &stats.TotalInventoryUnits},
	} {
		if err := postgresql.db.QueryRowContext(ctx, count.query).Scan(count.dest); err != nil {
			postgresql.log.Sugar().Errorf("Failed to execute a statistics query: %s", err)
			return nil, err
		}
	}

	return stats, nil
}

// nullableString maps an empty string onto NULL.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
