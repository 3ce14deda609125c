package port

import "context"

// SiteStorage определяет куда выгружаются файлы статического экспорта.
type SiteStorage interface {
	// PutObject записывает файл и возвращает его адрес.
	PutObject(ctx context.Context, key, contentType string, body []byte) (string, error)
}
