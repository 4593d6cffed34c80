package storage

import (
	"context"
	"io"
)

// Storage прячет конкретное блоб-хранилище от хендлеров:
// локальный диск в dev, MinIO в остальных окружениях
type Storage interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
