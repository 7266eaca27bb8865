package store

import (
	"context"
	"errors"

	"foodbridge-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoListingStore persists listings in the "food_listings" collection.
type MongoListingStore struct {
	coll *mongo.Collection
}

func NewMongoListingStore(db *mongo.Database) *MongoListingStore {
	return &MongoListingStore{coll: db.Collection("food_listings")}
}

func (s *MongoListingStore) GetByID(ctx context.Context, id string) (*models.FoodListing, error) {
	var l models.FoodListing
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (s *MongoListingStore) List(ctx context.Context, f ListingFilter) ([]models.FoodListing, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.HotelID != "" {
		filter["hotelId"] = f.HotelID
	}
	if f.ExpiredBefore != 0 {
		filter["expiryTime"] = bson.M{"$lte": f.ExpiredBefore}
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var listings []models.FoodListing
	if err = cursor.All(ctx, &listings); err != nil {
		return nil, err
	}
	if listings == nil {
		listings = []models.FoodListing{}
	}
	return listings, nil
}

func (s *MongoListingStore) Create(ctx context.Context, l *models.FoodListing) error {
	_, err := s.coll.InsertOne(ctx, l)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// UpdateVersioned replaces the document only while its version matches the
// caller's read. A zero-match result means someone else got there first.
func (s *MongoListingStore) UpdateVersioned(ctx context.Context, l *models.FoodListing) error {
	filter := bson.M{"_id": l.ID, "version": l.Version}
	next := *l
	next.Version = l.Version + 1

	result, err := s.coll.ReplaceOne(ctx, filter, &next)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		count, err := s.coll.CountDocuments(ctx, bson.M{"_id": l.ID})
		if err == nil && count == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}
	l.Version = next.Version
	return nil
}

func (s *MongoListingStore) Delete(ctx context.Context, id string) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoCollectionStore persists pickup arrangements in "food_collections".
type MongoCollectionStore struct {
	coll *mongo.Collection
}

func NewMongoCollectionStore(db *mongo.Database) *MongoCollectionStore {
	return &MongoCollectionStore{coll: db.Collection("food_collections")}
}

func (s *MongoCollectionStore) GetByID(ctx context.Context, id string) (*models.FoodCollection, error) {
	var c models.FoodCollection
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *MongoCollectionStore) List(ctx context.Context, f CollectionFilter) ([]models.FoodCollection, error) {
	filter := bson.M{}
	if f.ListingID != "" {
		filter["foodListingId"] = f.ListingID
	}
	if f.ForUser != "" {
		filter["$or"] = bson.A{
			bson.M{"hotelId": f.ForUser},
			bson.M{"ngoId": f.ForUser},
			bson.M{"volunteerId": f.ForUser},
		}
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var collections []models.FoodCollection
	if err = cursor.All(ctx, &collections); err != nil {
		return nil, err
	}
	if collections == nil {
		collections = []models.FoodCollection{}
	}
	return collections, nil
}

// Create inserts the collection under its id as the document key, so two
// racing inserts of the same id cannot both succeed.
func (s *MongoCollectionStore) Create(ctx context.Context, c *models.FoodCollection) error {
	_, err := s.coll.InsertOne(ctx, c)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (s *MongoCollectionStore) Update(ctx context.Context, c *models.FoodCollection) error {
	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoNotificationStore persists notifications in "notifications".
type MongoNotificationStore struct {
	coll *mongo.Collection
}

func NewMongoNotificationStore(db *mongo.Database) *MongoNotificationStore {
	return &MongoNotificationStore{coll: db.Collection("notifications")}
}

func (s *MongoNotificationStore) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

func (s *MongoNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	_, err := s.coll.InsertOne(ctx, n)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (s *MongoNotificationStore) MarkRead(ctx context.Context, id, userID string) error {
	result, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoNotificationStore) Delete(ctx context.Context, id, userID string) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoUserStore persists accounts in "users".
type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection("users")}
}

func (s *MongoUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *MongoUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *MongoUserStore) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *MongoUserStore) Create(ctx context.Context, u *models.User) error {
	count, err := s.coll.CountDocuments(ctx, bson.M{"email": u.Email})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	_, err = s.coll.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (s *MongoUserStore) Update(ctx context.Context, u *models.User) error {
	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
