package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ashureev/orderbot/internal/domain"
	"github.com/ashureev/orderbot/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db    *sql.DB
	retry shared.RetryPolicy
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithRetryPolicy overrides the retry policy used for writes.
func WithRetryPolicy(p shared.RetryPolicy) Option {
	return func(s *SQLiteStore) { s.retry = p }
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string, opts ...Option) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db, retry: shared.DefaultRetryPolicy}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS food_items (
		name TEXT PRIMARY KEY,
		price_cents INTEGER NOT NULL CHECK (price_cents >= 0)
	);

	CREATE TABLE IF NOT EXISTS orders (
		order_id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS order_items (
		order_id INTEGER NOT NULL,
		item_name TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity >= 0),
		total_cents INTEGER NOT NULL,
		PRIMARY KEY (order_id, item_name)
	);

	CREATE TABLE IF NOT EXISTS order_tracking (
		order_id INTEGER PRIMARY KEY,
		status TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// AllocateNextOrderID reserves a new order ID. AUTOINCREMENT never reuses
// IDs, even after rows are deleted.
func (s *SQLiteStore) AllocateNextOrderID(ctx context.Context) (int64, error) {
	var id int64
	err := shared.RetryOnConflict(ctx, s.retry, "allocate_order_id", func() error {
		res, err := s.db.ExecContext(ctx, `INSERT INTO orders (created_at) VALUES (?)`, time.Now().Unix())
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("allocate order id: %w", err)
	}
	return id, nil
}

// InsertLineItem records one item of an order at the current menu price.
func (s *SQLiteStore) InsertLineItem(ctx context.Context, name string, quantity int, orderID int64) error {
	query := `
		INSERT INTO order_items (order_id, item_name, quantity, total_cents)
		SELECT ?, name, ?, price_cents * ? FROM food_items WHERE name = ?`

	var affected int64
	err := shared.RetryOnConflict(ctx, s.retry, "insert_line_item", func() error {
		res, err := s.db.ExecContext(ctx, query, orderID, quantity, quantity, name)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("insert line item %q: %w", name, err)
	}
	if affected == 0 {
		return fmt.Errorf("insert line item %q: %w", name, ErrUnknownItem)
	}
	return nil
}

// InsertTrackingRecord writes the initial tracking status of an order.
func (s *SQLiteStore) InsertTrackingRecord(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	query := `INSERT INTO order_tracking (order_id, status, updated_at) VALUES (?, ?, ?)`
	err := shared.RetryOnConflict(ctx, s.retry, "insert_tracking_record", func() error {
		_, err := s.db.ExecContext(ctx, query, orderID, string(status), time.Now().Unix())
		return err
	})
	if err != nil {
		return fmt.Errorf("insert tracking record: %w", err)
	}
	return nil
}

// UpdateTrackingStatus changes the status of an existing tracking record.
func (s *SQLiteStore) UpdateTrackingStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	query := `UPDATE order_tracking SET status = ?, updated_at = ? WHERE order_id = ?`

	var rows int64
	err := shared.RetryOnConflict(ctx, s.retry, "update_tracking_status", func() error {
		res, err := s.db.ExecContext(ctx, query, string(status), time.Now().Unix(), orderID)
		if err != nil {
			return err
		}
		rows, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("update tracking status: %w", err)
	}
	if rows == 0 {
		slog.Warn("UpdateTrackingStatus affected 0 rows", "order_id", orderID)
		return fmt.Errorf("order %d has no tracking record", orderID)
	}
	return nil
}

// GetTotalPrice sums the persisted line items of an order.
func (s *SQLiteStore) GetTotalPrice(ctx context.Context, orderID int64) (domain.Cents, error) {
	var total int64
	row := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(total_cents), 0) FROM order_items WHERE order_id = ?`, orderID)
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("scan order total: %w", err)
	}
	return domain.Cents(total), nil
}

// GetStatus returns the tracking status of an order.
func (s *SQLiteStore) GetStatus(ctx context.Context, orderID int64) (domain.OrderStatus, bool, error) {
	var status string
	row := s.db.QueryRowContext(ctx, `SELECT status FROM order_tracking WHERE order_id = ?`, orderID)
	err := row.Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("scan order status: %w", err)
	}
	return domain.OrderStatus(status), true, nil
}

// DeleteLineItems removes every line item written for an order.
func (s *SQLiteStore) DeleteLineItems(ctx context.Context, orderID int64) (int64, error) {
	var rows int64
	err := shared.RetryOnConflict(ctx, s.retry, "delete_line_items", func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, orderID)
		if err != nil {
			return err
		}
		rows, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("delete line items: %w", err)
	}
	return rows, nil
}

// UpsertMenuItem creates or reprices a menu entry.
func (s *SQLiteStore) UpsertMenuItem(ctx context.Context, item domain.MenuItem) error {
	query := `
	INSERT INTO food_items (name, price_cents) VALUES (?, ?)
	ON CONFLICT(name) DO UPDATE SET price_cents = excluded.price_cents`

	err := shared.RetryOnConflict(ctx, s.retry, "upsert_menu_item", func() error {
		_, err := s.db.ExecContext(ctx, query, item.Name, int64(item.Price))
		return err
	})
	if err != nil {
		return fmt.Errorf("upsert menu item: %w", err)
	}
	return nil
}

// ListMenu returns the menu sorted by name.
func (s *SQLiteStore) ListMenu(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, price_cents FROM food_items ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query menu: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close menu rows", "error", closeErr)
		}
	}()

	var items []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		var price int64
		if err := rows.Scan(&item.Name, &price); err != nil {
			return nil, fmt.Errorf("scan menu row: %w", err)
		}
		item.Price = domain.Cents(price)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu: %w", err)
	}
	return items, nil
}

var _ Repository = (*SQLiteStore)(nil)
