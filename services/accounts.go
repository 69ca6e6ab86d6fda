package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ray-remotestate/foodcourt/database"
	"github.com/ray-remotestate/foodcourt/models"
	"github.com/ray-remotestate/foodcourt/utils"
	"github.com/sirupsen/logrus"
)

const minPasswordLen = 6

type Accounts struct {
	users     database.UserStore
	secretKey []byte
	tokenTTL  time.Duration
}

func NewAccounts(users database.UserStore, secretKey []byte, tokenTTL time.Duration) *Accounts {
	return &Accounts{users: users, secretKey: secretKey, tokenTTL: tokenTTL}
}

type Session struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	Roles       []string     `json:"roles"`
}

func (a *Accounts) Register(ctx context.Context, name, email, password string) (*Session, error) {
	user, err := a.create(ctx, name, email, password, false)
	if err != nil {
		return nil, err
	}
	return a.session(user)
}

func (a *Accounts) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, ValidationError("email and password required")
	}
	user, err := a.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, database.ErrNotFound) {
		return nil, UnauthenticatedError("Invalid credentials")
	}
	if err != nil {
		return nil, Unexpected(err)
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, UnauthenticatedError("Invalid credentials")
	}
	return a.session(user)
}

func (a *Accounts) Profile(ctx context.Context, id string) (*models.User, error) {
	user, err := a.users.GetUser(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return user, nil
}

// EnsureAdmin creates the admin account unless a user with that email exists.
func (a *Accounts) EnsureAdmin(ctx context.Context, name, email, password string) error {
	_, err := a.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return err
	}
	if _, err := a.create(ctx, name, email, password, true); err != nil {
		return err
	}
	logrus.WithField("email", email).Info("admin account created")
	return nil
}

func (a *Accounts) create(ctx context.Context, name, email, password string, isAdmin bool) (*models.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, ValidationError("all fields are required")
	}
	if len(password) < minPasswordLen {
		return nil, ValidationError("password must be at least 6 characters")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, Unexpected(err)
	}
	user := &models.User{Name: name, Email: email, Password: hashed, IsAdmin: isAdmin}
	err = a.users.CreateUser(ctx, user)
	if errors.Is(err, database.ErrDuplicate) {
		return nil, ValidationError("User already exists")
	}
	if err != nil {
		return nil, Unexpected(err)
	}
	return user, nil
}

func (a *Accounts) session(user *models.User) (*Session, error) {
	roles := user.Roles()
	token, err := utils.GenerateAccessToken(a.secretKey, a.tokenTTL, user.ID, roles)
	if err != nil {
		return nil, Unexpected(err)
	}
	return &Session{User: user, AccessToken: token, Roles: roles}, nil
}
