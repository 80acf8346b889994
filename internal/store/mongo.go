package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/remotebricks/account-service/internal/models"
)

// MongoStore handles user and details CRUD across the two account
// collections. Each call is a single driver operation; nothing here
// spans both collections atomically.
type MongoStore struct {
	users   *mongo.Collection
	details *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		users:   db.Collection("users"),
		details: db.Collection("details"),
	}
}

// FindUserByEmail returns the user with the given email, or nil when
// no such document exists.
func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

// FindUserByUsername returns the user with the given username, or nil
// when no such document exists.
func (s *MongoStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &u, nil
}

// FindUserByID returns the user with the given key, or nil when no
// such document exists.
func (s *MongoStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &u, nil
}

func (s *MongoStore) InsertUser(ctx context.Context, u *models.User) (primitive.ObjectID, error) {
	res, err := s.users.InsertOne(ctx, u)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert user: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// SetLinkedID sets the linked_id field on a user and reports how many
// documents the update matched.
func (s *MongoStore) SetLinkedID(ctx context.Context, id primitive.ObjectID, linkedID string) (int64, error) {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"linked_id": linkedID}},
	)
	if err != nil {
		return 0, fmt.Errorf("set linked id: %w", err)
	}
	return res.MatchedCount, nil
}

// DeleteUserByID removes a user document and reports the deleted count.
func (s *MongoStore) DeleteUserByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	return res.DeletedCount, nil
}

// FindDetailsByID returns the details document keyed by the owning
// user's id, or nil when none exists.
func (s *MongoStore) FindDetailsByID(ctx context.Context, id primitive.ObjectID) (*models.Details, error) {
	var d models.Details
	err := s.details.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find details: %w", err)
	}
	return &d, nil
}

func (s *MongoStore) InsertDetails(ctx context.Context, d *models.Details) error {
	if _, err := s.details.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("insert details: %w", err)
	}
	return nil
}

// DeleteDetailsByID removes every details document keyed by the given
// id and reports the deleted count.
func (s *MongoStore) DeleteDetailsByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.details.DeleteMany(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete details: %w", err)
	}
	return res.DeletedCount, nil
}

// JoinUsersWithDetails projects every user document with a joined_data
// array looked up from the details collection. Unfiltered and
// unpaginated; the result grows with the users collection.
func (s *MongoStore) JoinUsersWithDetails(ctx context.Context) ([]models.JoinedUser, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "details"},
			{Key: "localField", Value: "linked_ids"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "joined_data"},
		}}},
	}
	cur, err := s.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("join aggregate: %w", err)
	}
	defer cur.Close(ctx)

	var joined []models.JoinedUser
	if err := cur.All(ctx, &joined); err != nil {
		return nil, fmt.Errorf("join decode: %w", err)
	}
	return joined, nil
}
