package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Details is a profile document in the "details" collection. Its _id is
// the owning user's _id, which is also the join key.
type Details struct {
	ID       primitive.ObjectID `json:"_id"      bson:"_id"`
	Age      int                `json:"age"      bson:"age"`
	Location string             `json:"location" bson:"location"`
}

// DetailsRequest is the JSON body for POST /add_details.
type DetailsRequest struct {
	Age      int    `json:"age"`
	UserID   string `json:"user_id"`
	Location string `json:"location"`
}

// DeleteUserRequest is the JSON body for DELETE /delete_user.
type DeleteUserRequest struct {
	UserID string `json:"user_id"`
}
