// Package memstore keeps the catalog, orders and accounts in process memory.
// It backs the tests and lets the server run without external services.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ray-remotestate/foodcourt/database"
	"github.com/ray-remotestate/foodcourt/models"
)

type Store struct {
	mu     sync.RWMutex
	seq    int64
	foods  map[string]entry[models.FoodItem]
	orders map[string]entry[models.Order]
	users  map[string]entry[models.User]
	now    func() time.Time
}

// entry remembers insertion order so equal timestamps still sort stably.
type entry[T any] struct {
	seq int64
	val T
}

var _ database.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		foods:  make(map[string]entry[models.FoodItem]),
		orders: make(map[string]entry[models.Order]),
		users:  make(map[string]entry[models.User]),
		now:    time.Now,
	}
}

func (s *Store) Close(context.Context) error { return nil }

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

// key normalizes an identifier, reporting false for anything that is not a UUID.
func key(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

func newestFirst[T any](m map[string]entry[T], keep func(T) bool) []T {
	entries := make([]entry[T], 0, len(m))
	for _, e := range m {
		if keep(e.val) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq > entries[j].seq })
	out := make([]T, len(entries))
	for i, e := range entries {
		out[i] = e.val
	}
	return out
}

func (s *Store) ListFoods(_ context.Context, filter models.FoodFilter) ([]models.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	return newestFirst(s.foods, func(f models.FoodItem) bool {
		if filter.Category != "" && f.Category != filter.Category {
			return false
		}
		return search == "" || strings.Contains(strings.ToLower(f.Name), search)
	}), nil
}

func (s *Store) GetFood(_ context.Context, id string) (*models.FoodItem, error) {
	k, ok := key(id)
	if !ok {
		return nil, database.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.foods[k]
	if !ok {
		return nil, database.ErrNotFound
	}
	f := e.val
	return &f, nil
}

func (s *Store) CreateFood(_ context.Context, food *models.FoodItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	food.ID = uuid.NewString()
	food.CreatedAt = s.now().UTC()
	s.foods[food.ID] = entry[models.FoodItem]{seq: s.nextSeq(), val: *food}
	return nil
}

func (s *Store) UpdateFood(_ context.Context, id string, update models.FoodUpdate) (*models.FoodItem, error) {
	k, ok := key(id)
	if !ok {
		return nil, database.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.foods[k]
	if !ok {
		return nil, database.ErrNotFound
	}
	update.Apply(&e.val)
	s.foods[k] = e
	f := e.val
	return &f, nil
}

func (s *Store) DeleteFood(_ context.Context, id string) error {
	k, ok := key(id)
	if !ok {
		return database.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.foods[k]; !ok {
		return database.ErrNotFound
	}
	delete(s.foods, k)
	return nil
}

func (s *Store) CreateOrder(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = uuid.NewString()
	order.CreatedAt = s.now().UTC()
	s.orders[order.ID] = entry[models.Order]{seq: s.nextSeq(), val: cloneOrder(*order)}
	return nil
}

func (s *Store) GetOrder(_ context.Context, id string) (*models.Order, error) {
	k, ok := key(id)
	if !ok {
		return nil, database.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.orders[k]
	if !ok {
		return nil, database.ErrNotFound
	}
	o := cloneOrder(e.val)
	return &o, nil
}

func (s *Store) ListOrders(_ context.Context, userID string) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := newestFirst(s.orders, func(o models.Order) bool {
		return userID == "" || o.UserID == userID
	})
	for i := range orders {
		orders[i] = cloneOrder(orders[i])
	}
	return orders, nil
}

func (s *Store) UpdateOrder(_ context.Context, id string, update models.OrderUpdate) (*models.Order, error) {
	k, ok := key(id)
	if !ok {
		return nil, database.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.orders[k]
	if !ok {
		return nil, database.ErrNotFound
	}
	update.Apply(&e.val)
	s.orders[k] = e
	o := cloneOrder(e.val)
	return &o, nil
}

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.users {
		if strings.EqualFold(e.val.Email, user.Email) {
			return database.ErrDuplicate
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = s.now().UTC()
	s.users[user.ID] = entry[models.User]{seq: s.nextSeq(), val: *user}
	return nil
}

func (s *Store) GetUser(_ context.Context, id string) (*models.User, error) {
	k, ok := key(id)
	if !ok {
		return nil, database.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.users[k]
	if !ok {
		return nil, database.ErrNotFound
	}
	u := e.val
	return &u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.users {
		if strings.EqualFold(e.val.Email, email) {
			u := e.val
			return &u, nil
		}
	}
	return nil, database.ErrNotFound
}

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return o
}
