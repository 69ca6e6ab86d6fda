// Package mongostore persists the catalog, orders and accounts in MongoDB.
// Order lines are embedded in the order document.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ray-remotestate/foodcourt/database"
	"github.com/ray-remotestate/foodcourt/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	foodCollection  = "fooditems"
	orderCollection = "orders"
	userCollection  = "users"
)

type Store struct {
	client *mongo.Client
	foods  *mongo.Collection
	orders *mongo.Collection
	users  *mongo.Collection
}

var _ database.Store = (*Store)(nil)

// Connect dials uri, verifies the deployment is reachable and ensures the
// indexes the store relies on.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{
		client: client,
		foods:  db.Collection(foodCollection),
		orders: db.Collection(orderCollection),
		users:  db.Collection(userCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "emailLower", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	_, err = s.orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("orders index: %w", err)
	}
	return nil
}

// ObjectIDs grow monotonically, breaking ties between documents created in
// the same millisecond.
var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, database.ErrNotFound
	}
	return oid, nil
}

func translate(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return database.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return database.ErrDuplicate
	}
	return err
}

type foodDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Category    string             `bson:"category"`
	Image       string             `bson:"image"`
	IsAvailable bool               `bson:"isAvailable"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d foodDoc) model() models.FoodItem {
	return models.FoodItem{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Category:    models.Category(d.Category),
		Image:       d.Image,
		IsAvailable: d.IsAvailable,
		CreatedAt:   d.CreatedAt,
	}
}

func (s *Store) ListFoods(ctx context.Context, filter models.FoodFilter) ([]models.FoodItem, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = string(filter.Category)
	}
	if filter.Search != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
	}

	cur, err := s.foods.Find(ctx, query, newestFirst)
	if err != nil {
		return nil, err
	}
	var docs []foodDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	foods := make([]models.FoodItem, 0, len(docs))
	for _, d := range docs {
		foods = append(foods, d.model())
	}
	return foods, nil
}

func (s *Store) GetFood(ctx context.Context, id string) (*models.FoodItem, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var d foodDoc
	if err := s.foods.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return nil, translate(err)
	}
	f := d.model()
	return &f, nil
}

func (s *Store) CreateFood(ctx context.Context, food *models.FoodItem) error {
	d := foodDoc{
		ID:          primitive.NewObjectID(),
		Name:        food.Name,
		Description: food.Description,
		Price:       food.Price,
		Category:    string(food.Category),
		Image:       food.Image,
		IsAvailable: food.IsAvailable,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.foods.InsertOne(ctx, d); err != nil {
		return translate(err)
	}
	food.ID = d.ID.Hex()
	food.CreatedAt = d.CreatedAt
	return nil
}

func (s *Store) UpdateFood(ctx context.Context, id string, update models.FoodUpdate) (*models.FoodItem, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Category != nil {
		set["category"] = string(*update.Category)
	}
	if update.Image != nil {
		set["image"] = *update.Image
	}
	if update.IsAvailable != nil {
		set["isAvailable"] = *update.IsAvailable
	}
	if len(set) == 0 {
		return s.GetFood(ctx, id)
	}

	var d foodDoc
	err = s.foods.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&d)
	if err != nil {
		return nil, translate(err)
	}
	f := d.model()
	return &f, nil
}

func (s *Store) DeleteFood(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.foods.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

type orderItemDoc struct {
	Food     primitive.ObjectID `bson:"food"`
	Quantity int                `bson:"quantity"`
	Price    float64            `bson:"price"`
}

type orderDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	User            primitive.ObjectID `bson:"user"`
	Items           []orderItemDoc     `bson:"items"`
	TotalPrice      float64            `bson:"totalPrice"`
	Status          string             `bson:"status"`
	DeliveryAddress string             `bson:"deliveryAddress"`
	CreatedAt       time.Time          `bson:"createdAt"`
}

func (d orderDoc) model() models.Order {
	items := make([]models.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, models.OrderItem{FoodID: it.Food.Hex(), Quantity: it.Quantity, Price: it.Price})
	}
	return models.Order{
		ID:              d.ID.Hex(),
		UserID:          d.User.Hex(),
		Items:           items,
		TotalPrice:      d.TotalPrice,
		Status:          models.OrderStatus(d.Status),
		DeliveryAddress: d.DeliveryAddress,
		CreatedAt:       d.CreatedAt,
	}
}

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	user, err := objectID(order.UserID)
	if err != nil {
		return err
	}
	d := orderDoc{
		ID:              primitive.NewObjectID(),
		User:            user,
		Items:           make([]orderItemDoc, 0, len(order.Items)),
		TotalPrice:      order.TotalPrice,
		Status:          string(order.Status),
		DeliveryAddress: order.DeliveryAddress,
		CreatedAt:       time.Now().UTC().Truncate(time.Millisecond),
	}
	for _, it := range order.Items {
		food, err := objectID(it.FoodID)
		if err != nil {
			return err
		}
		d.Items = append(d.Items, orderItemDoc{Food: food, Quantity: it.Quantity, Price: it.Price})
	}

	if _, err := s.orders.InsertOne(ctx, d); err != nil {
		return translate(err)
	}
	order.ID = d.ID.Hex()
	order.CreatedAt = d.CreatedAt
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var d orderDoc
	if err := s.orders.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return nil, translate(err)
	}
	o := d.model()
	return &o, nil
}

func (s *Store) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	query := bson.M{}
	if userID != "" {
		user, err := objectID(userID)
		if err != nil {
			return []models.Order{}, nil
		}
		query["user"] = user
	}

	cur, err := s.orders.Find(ctx, query, newestFirst)
	if err != nil {
		return nil, err
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, d.model())
	}
	return orders, nil
}

func (s *Store) UpdateOrder(ctx context.Context, id string, update models.OrderUpdate) (*models.Order, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if update.Status != nil {
		set["status"] = string(*update.Status)
	}
	if update.DeliveryAddress != nil {
		set["deliveryAddress"] = *update.DeliveryAddress
	}
	if len(set) == 0 {
		return s.GetOrder(ctx, id)
	}

	var d orderDoc
	err = s.orders.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&d)
	if err != nil {
		return nil, translate(err)
	}
	o := d.model()
	return &o, nil
}

type userDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email"`
	EmailLower string             `bson:"emailLower"`
	Password   string             `bson:"password"`
	IsAdmin    bool               `bson:"isAdmin"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

func (d userDoc) model() models.User {
	return models.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Password:  d.Password,
		IsAdmin:   d.IsAdmin,
		CreatedAt: d.CreatedAt,
	}
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	d := userDoc{
		ID:         primitive.NewObjectID(),
		Name:       user.Name,
		Email:      user.Email,
		EmailLower: strings.ToLower(user.Email),
		Password:   user.Password,
		IsAdmin:    user.IsAdmin,
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.users.InsertOne(ctx, d); err != nil {
		return translate(err)
	}
	user.ID = d.ID.Hex()
	user.CreatedAt = d.CreatedAt
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var d userDoc
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return nil, translate(err)
	}
	u := d.model()
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var d userDoc
	if err := s.users.FindOne(ctx, bson.M{"emailLower": strings.ToLower(email)}).Decode(&d); err != nil {
		return nil, translate(err)
	}
	u := d.model()
	return &u, nil
}
