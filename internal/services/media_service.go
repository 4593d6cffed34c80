package services

import (
	"context"
	"io"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"carbon-shredder/internal/models"
	"carbon-shredder/internal/storage"
)

type MediaService struct {
	repo  MediaRepository
	users MediaOwnerRepository
	store storage.Storage
}

type MediaRepository interface {
	Save(ctx context.Context, m *models.Media) error
	FindAllNewestFirst(ctx context.Context) ([]models.Media, error)
}

type MediaOwnerRepository interface {
	PushMediaRef(userID, mediaID primitive.ObjectID) error
}

func NewMediaService(repo MediaRepository, users MediaOwnerRepository, store storage.Storage) *MediaService {
	return &MediaService{repo: repo, users: users, store: store}
}

type MediaUploadInput struct {
	Title       string
	Description string
	Category    string
	Key         string
	ContentType string
	Size        int64
}

// Upload кладёт файл в хранилище и сохраняет запись каталога,
// привязанную к аккаунту владельца
func (s *MediaService) Upload(ctx context.Context, userID primitive.ObjectID, r io.Reader, in MediaUploadInput) (*models.Media, error) {
	url, err := s.store.Save(ctx, in.Key, r, in.Size, in.ContentType)
	if err != nil {
		return nil, err
	}

	media := &models.Media{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		File:        in.Key,
		URL:         url,
		FileType:    models.MediaTypeFromContentType(in.ContentType),
		Category:    in.Category,
	}

	if err := s.repo.Save(ctx, media); err != nil {
		if derr := s.store.Delete(ctx, in.Key); derr != nil {
			log.Printf("failed to delete file %s after save error: %v", in.Key, derr)
		}
		return nil, err
	}

	// слабая ссылка на стороне аккаунта, каталог — источник истины
	if err := s.users.PushMediaRef(userID, media.ID); err != nil {
		log.Printf("failed to link media %s to user %s: %v", media.ID.Hex(), userID.Hex(), err)
	}

	return media, nil
}

func (s *MediaService) List(ctx context.Context) ([]models.Media, error) {
	return s.repo.FindAllNewestFirst(ctx)
}
