package dbhelper

import (
	"context"
	"database/sql"

	"github.com/ray-remotestate/foodcourt/database"
	"github.com/ray-remotestate/foodcourt/models"
)

const orderColumns = `id, user_id, total_price, status, delivery_address, created_at`

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.Status, &o.DeliveryAddress, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	userID, err := parseID(order.UserID)
	if err != nil {
		return err
	}
	return database.Tx(s.DB, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO orders (user_id, total_price, status, delivery_address)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`,
			userID, order.TotalPrice, order.Status, order.DeliveryAddress).
			Scan(&order.ID, &order.CreatedAt)
		if err != nil {
			return err
		}
		for i, item := range order.Items {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, position, food_id, quantity, price)
				VALUES ($1, $2, $3, $4, $5)`,
				order.ID, i, item.FoodID, item.Quantity, item.Price)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	orderID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	o, err := scanOrder(s.DB.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if err != nil {
		return nil, translate(err)
	}
	if o.Items, err = loadItems(ctx, s.DB, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Store) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if userID == "" {
		rows, err = s.DB.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
	} else {
		uid, parseErr := parseID(userID)
		if parseErr != nil {
			return []models.Order{}, nil
		}
		rows, err = s.DB.QueryContext(ctx,
			`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, uid)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]models.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].Items, err = loadItems(ctx, s.DB, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *Store) UpdateOrder(ctx context.Context, id string, update models.OrderUpdate) (*models.Order, error) {
	orderID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	res, err := s.DB.ExecContext(ctx, `
		UPDATE orders
		SET status = COALESCE($2, status), delivery_address = COALESCE($3, delivery_address)
		WHERE id = $1`,
		orderID, nullString((*string)(update.Status)), nullString(update.DeliveryAddress))
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, database.ErrNotFound
	}
	return s.GetOrder(ctx, id)
}

func loadItems(ctx context.Context, q SQLExecutor, orderID string) ([]models.OrderItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT food_id, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY position`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.OrderItem, 0)
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.FoodID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
