package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/gosimple/slug"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

// ExportKey is the object key of one export file of a tournament.
func ExportKey(tournamentSlug string, tournamentID int, fileName string) string {
	return fmt.Sprintf("exports/%s-%d/%s", slug.Make(tournamentSlug), tournamentID, fileName)
}
