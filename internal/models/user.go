package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is an account document in the "users" collection.
type User struct {
	ID       primitive.ObjectID `json:"_id"      bson:"_id,omitempty"`
	Username string             `json:"username" bson:"username"`
	Email    string             `json:"email"    bson:"email"`
	Password string             `json:"-"        bson:"password"` // never serialize
	LinkedID string             `json:"linked_id,omitempty" bson:"linked_id,omitempty"`
}

// JoinedUser is a user document with matching details embedded, as
// produced by the /join aggregation. The password field is dropped.
type JoinedUser struct {
	ID         primitive.ObjectID `json:"_id"         bson:"_id"`
	Username   string             `json:"username"    bson:"username"`
	Email      string             `json:"email"       bson:"email"`
	LinkedID   string             `json:"linked_id,omitempty" bson:"linked_id,omitempty"`
	JoinedData []Details          `json:"joined_data" bson:"joined_data"`
}

// RegisterRequest is the JSON body for POST /register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LinkIDRequest is the JSON body for POST /link-id.
type LinkIDRequest struct {
	UserID   string `json:"user_id"`
	LinkedID string `json:"linked_id"`
}
