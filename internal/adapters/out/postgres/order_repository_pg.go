// internal/adapters/out/postgres/order_repository_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	orderdom "tastebite/internal/domain/order"
)

// OrderRepositoryPG is the Order Submission Service adapter. It implements
// both order.Submitter and order.Query against the orders / order_items
// tables.
//
// The header insert and the line batch run inside one transaction, so a
// failed line write can never leave an orphaned header behind.
type OrderRepositoryPG struct {
	DB *sql.DB
}

func NewOrderRepositoryPG(db *sql.DB) *OrderRepositoryPG {
	return &OrderRepositoryPG{DB: db}
}

// Submit creates the order header plus its line batch and returns the created
// order id. Any failure rolls back and is returned to the caller as a
// recoverable error.
func (r *OrderRepositoryPG) Submit(ctx context.Context, d orderdom.Draft) (string, error) {
	if r == nil || r.DB == nil {
		return "", errors.New("order_repository_pg: db is nil")
	}
	if err := d.Validate(); err != nil {
		return "", err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("order_repository_pg: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	eta := now.Add(time.Duration(d.RequestedEtaOffsetMin) * time.Minute)

	const headerQ = `
INSERT INTO orders (user_id, restaurant_id, restaurant_name, total, status, delivery_address, estimated_delivery_time, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`

	var orderID string
	err = tx.QueryRowContext(ctx, headerQ,
		d.UserID,
		d.RestaurantID,
		d.RestaurantName,
		d.Total,
		orderdom.StatusPending,
		d.DeliveryAddress,
		eta,
		now,
	).Scan(&orderID)
	if err != nil {
		return "", fmt.Errorf("order_repository_pg: insert header: %w", err)
	}

	const lineQ = `
INSERT INTO order_items (order_id, menu_item_id, name, price, quantity, special_instructions)
VALUES ($1, $2, $3, $4, $5, $6)`

	for _, it := range d.Items {
		if _, err := tx.ExecContext(ctx, lineQ,
			orderID,
			it.MenuItemID,
			it.Name,
			it.Price,
			it.Quantity,
			it.SpecialInstructions,
		); err != nil {
			return "", fmt.Errorf("order_repository_pg: insert item %s: %w", it.MenuItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("order_repository_pg: commit: %w", err)
	}
	return orderID, nil
}

// ListByUser returns the user's orders newest-first, lines included.
func (r *OrderRepositoryPG) ListByUser(ctx context.Context, userID string) ([]orderdom.Order, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("order_repository_pg: db is nil")
	}

	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("order_repository_pg: userID is empty")
	}

	const q = `
SELECT id, user_id, restaurant_id, restaurant_name, total, status, delivery_address, estimated_delivery_time, created_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC, id DESC`

	rows, err := r.DB.QueryContext(ctx, q, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []orderdom.Order
	for rows.Next() {
		var o orderdom.Order
		var addr sql.NullString
		var eta sql.NullTime
		if err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.RestaurantID,
			&o.RestaurantName,
			&o.Total,
			&o.Status,
			&addr,
			&eta,
			&o.CreatedAt,
		); err != nil {
			return nil, err
		}
		if addr.Valid {
			v := addr.String
			o.DeliveryAddress = &v
		}
		if eta.Valid {
			t := eta.Time
			o.EstimatedDeliveryTime = &t
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		items, err := r.listItems(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (r *OrderRepositoryPG) listItems(ctx context.Context, orderID string) ([]orderdom.ItemSnapshot, error) {
	const q = `
SELECT menu_item_id, name, price, quantity, special_instructions
FROM order_items
WHERE order_id = $1
ORDER BY id ASC`

	rows, err := r.DB.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []orderdom.ItemSnapshot
	for rows.Next() {
		var it orderdom.ItemSnapshot
		var instr sql.NullString
		if err := rows.Scan(&it.MenuItemID, &it.Name, &it.Price, &it.Quantity, &instr); err != nil {
			return nil, err
		}
		if instr.Valid {
			v := instr.String
			it.SpecialInstructions = &v
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
