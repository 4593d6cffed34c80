package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MediaType string

const (
	ImageMedia MediaType = "image"
	VideoMedia MediaType = "video"
)

// MediaTypeFromContentType: видео определяется по префиксу MIME-типа,
// всё остальное считается изображением
func MediaTypeFromContentType(contentType string) MediaType {
	if strings.HasPrefix(contentType, "video") {
		return VideoMedia
	}
	return ImageMedia
}

type Media struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	File        string             `bson:"file" json:"file"`
	URL         string             `bson:"url,omitempty" json:"url,omitempty"`
	FileType    MediaType          `bson:"file_type" json:"fileType"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	UploadedAt  time.Time          `bson:"uploaded_at" json:"uploadedAt"`
}
