package storage

import (
	"context"

	"github.com/Popolzen/ossconvert/internal/model"
)

// ObjectStorage — порт объектного хранилища: сохранить байты под
// уникальным ключом и вернуть временную ссылку на скачивание.
type ObjectStorage interface {
	Upload(ctx context.Context, data []byte, filename string) (model.UploadResult, error)
	Endpoint() string
}
