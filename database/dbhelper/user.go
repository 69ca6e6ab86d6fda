package dbhelper

import (
	"context"

	"github.com/ray-remotestate/foodcourt/models"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		user.Name, user.Email, user.Password, user.IsAdmin).
		Scan(&user.ID, &user.CreatedAt)
	return translate(err)
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	userID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var u models.User
	err = s.DB.QueryRowContext(ctx, `
		SELECT id, name, email, password, is_admin, created_at
		FROM users
		WHERE id = $1`, userID).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, name, email, password, is_admin, created_at
		FROM users
		WHERE LOWER(email) = LOWER($1)`, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}
