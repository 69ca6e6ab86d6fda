package dbhelper

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ray-remotestate/foodcourt/database"
	"github.com/ray-remotestate/foodcourt/models"
)

const foodColumns = `id, name, description, price, category, image, is_available, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFood(row rowScanner) (*models.FoodItem, error) {
	var f models.FoodItem
	err := row.Scan(&f.ID, &f.Name, &f.Description, &f.Price, &f.Category, &f.Image, &f.IsAvailable, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *Store) ListFoods(ctx context.Context, filter models.FoodFilter) ([]models.FoodItem, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Search != "" {
		// strpos keeps the search literal; LIKE would treat % and _ as wildcards.
		args = append(args, filter.Search)
		conds = append(conds, fmt.Sprintf("strpos(LOWER(name), LOWER($%d)) > 0", len(args)))
	}

	query := `SELECT ` + foodColumns + ` FROM food_items`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	foods := make([]models.FoodItem, 0)
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		foods = append(foods, *f)
	}
	return foods, rows.Err()
}

func (s *Store) GetFood(ctx context.Context, id string) (*models.FoodItem, error) {
	foodID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	f, err := scanFood(s.DB.QueryRowContext(ctx,
		`SELECT `+foodColumns+` FROM food_items WHERE id = $1`, foodID))
	if err != nil {
		return nil, translate(err)
	}
	return f, nil
}

func (s *Store) CreateFood(ctx context.Context, food *models.FoodItem) error {
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO food_items (name, description, price, category, image, is_available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, price, created_at`,
		food.Name, food.Description, food.Price, food.Category, food.Image, food.IsAvailable).
		Scan(&food.ID, &food.Price, &food.CreatedAt)
	return translate(err)
}

func (s *Store) UpdateFood(ctx context.Context, id string, update models.FoodUpdate) (*models.FoodItem, error) {
	foodID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var updated *models.FoodItem
	err = database.Tx(s.DB, func(tx *sql.Tx) error {
		current, err := scanFood(tx.QueryRowContext(ctx,
			`SELECT `+foodColumns+` FROM food_items WHERE id = $1 FOR UPDATE`, foodID))
		if err != nil {
			return translate(err)
		}
		update.Apply(current)
		// numeric columns round the price; hand back what was stored.
		updated, err = scanFood(tx.QueryRowContext(ctx, `
			UPDATE food_items
			SET name = $2, description = $3, price = $4, category = $5, image = $6, is_available = $7
			WHERE id = $1
			RETURNING `+foodColumns,
			foodID, current.Name, current.Description, current.Price, current.Category, current.Image, current.IsAvailable))
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) DeleteFood(ctx context.Context, id string) error {
	foodID, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.DB.ExecContext(ctx, `DELETE FROM food_items WHERE id = $1`, foodID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return database.ErrNotFound
	}
	return nil
}
