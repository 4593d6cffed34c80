package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message — обращение с контактной формы, после создания не меняется
type Message struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderName  string             `bson:"sender_name" json:"senderName" validate:"required"`
	SenderEmail string             `bson:"sender_email" json:"senderEmail" validate:"required,email"`
	MessageBody string             `bson:"message_body" json:"messageBody" validate:"required"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
