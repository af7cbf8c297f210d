// ABOUTME: Order, order item, and shipment persistence
// ABOUTME: Orders are created transactionally with their items

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateOrder inserts an order with its items in a single transaction.
// The order ID must be set by the caller (a UUID).
func (s *SQLiteStore) CreateOrder(ctx context.Context, o *Order, items []*OrderItem) error {
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	if o.Status == "" {
		o.Status = OrderStatusPending
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, customer_name, customer_phone, customer_email, address, status, total_cents, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.CustomerName, o.CustomerPhone, o.CustomerEmail, o.Address,
		string(o.Status), o.TotalCents, formatTime(o.CreatedAt), formatTime(o.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	for _, item := range items {
		item.OrderID = o.ID
		res, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, phone_model_id, design_url, quantity, price_cents)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			item.OrderID, item.ProductID, item.PhoneModelID, item.DesignURL, item.Quantity, item.PriceCents,
		)
		if err != nil {
			return fmt.Errorf("inserting order item: %w", err)
		}
		item.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading order item id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing order: %w", err)
	}
	return nil
}

// GetOrder retrieves an order and its items by ID.
func (s *SQLiteStore) GetOrder(ctx context.Context, id string) (*Order, []*OrderItem, error) {
	var o Order
	var status, createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, customer_name, customer_phone, customer_email, address, status, total_cents, created_at, updated_at
		 FROM orders WHERE id = ?`, id,
	).Scan(&o.ID, &o.CustomerName, &o.CustomerPhone, &o.CustomerEmail, &o.Address,
		&status, &o.TotalCents, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("getting order: %w", err)
	}
	o.Status = OrderStatus(status)
	o.CreatedAt = parseTime(createdAt)
	o.UpdatedAt = parseTime(updatedAt)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, phone_model_id, design_url, quantity, price_cents
		 FROM order_items WHERE order_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("listing order items: %w", err)
	}
	defer rows.Close()

	var items []*OrderItem
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.PhoneModelID,
			&item.DesignURL, &item.Quantity, &item.PriceCents); err != nil {
			return nil, nil, fmt.Errorf("scanning order item: %w", err)
		}
		items = append(items, &item)
	}
	return &o, items, rows.Err()
}

// ListOrders returns orders matching the given filters, newest first.
func (s *SQLiteStore) ListOrders(ctx context.Context, params ListOrdersParams) ([]*Order, error) {
	query := `SELECT id, customer_name, customer_phone, customer_email, address, status, total_cents, created_at, updated_at FROM orders`
	var args []any
	if params.Status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*params.Status))
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, params.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		var status, createdAt, updatedAt string
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.CustomerPhone, &o.CustomerEmail,
			&o.Address, &status, &o.TotalCents, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		o.Status = OrderStatus(status)
		o.CreatedAt = parseTime(createdAt)
		o.UpdatedAt = parseTime(updatedAt)
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}

// UpdateOrderStatus transitions an order to the given status.
func (s *SQLiteStore) UpdateOrderStatus(ctx context.Context, id string, status OrderStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateShipment records the courier handoff for an order.
func (s *SQLiteStore) CreateShipment(ctx context.Context, sh *Shipment) error {
	sh.CreatedAt = time.Now()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO shipments (order_id, courier, service, waybill_id, fee_cents, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sh.OrderID, sh.Courier, sh.Service, sh.WaybillID, sh.FeeCents, sh.Status, formatTime(sh.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting shipment: %w", err)
	}

	sh.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading shipment id: %w", err)
	}
	return nil
}

// GetShipmentByOrder retrieves the most recent shipment for an order.
func (s *SQLiteStore) GetShipmentByOrder(ctx context.Context, orderID string) (*Shipment, error) {
	var sh Shipment
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, order_id, courier, service, waybill_id, fee_cents, status, created_at
		 FROM shipments WHERE order_id = ? ORDER BY id DESC LIMIT 1`, orderID,
	).Scan(&sh.ID, &sh.OrderID, &sh.Courier, &sh.Service, &sh.WaybillID, &sh.FeeCents, &sh.Status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting shipment: %w", err)
	}
	sh.CreatedAt = parseTime(createdAt)
	return &sh, nil
}
