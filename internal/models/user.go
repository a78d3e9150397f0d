package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is created once at registration and immutable afterwards.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash []byte             `bson:"password" json:"-"`
}
