package files

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Service coordinates object storage and the metadata table. Uploads write
// the object first, then the row; deletes remove the object first, then the
// row, so a metadata row never points at a missing object for longer than a
// failed request.
type Service struct {
	store   *Store
	objects ObjectStore

	clock func() time.Time
}

func NewService(store *Store, objects ObjectStore) *Service {
	return &Service{store: store, objects: objects, clock: time.Now}
}

func (s *Service) Upload(ctx context.Context, userID, filename, contentType string, size int64, body io.Reader) (File, error) {
	now := s.clock().UTC()
	key := fmt.Sprintf("%s/%d-%s", userID, now.UnixMilli(), filename)

	if err := s.objects.Put(ctx, key, contentType, body); err != nil {
		return File{}, err
	}

	f, err := s.store.Insert(ctx, File{
		ID:          uuid.NewString(),
		UserID:      userID,
		Filename:    filename,
		StoragePath: key,
		Size:        size,
		MimeType:    contentType,
		CreatedAt:   now,
	})
	if err != nil {
		// Best effort: don't leave an orphaned object behind a failed insert.
		_ = s.objects.Delete(ctx, key)
		return File{}, err
	}
	return f, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]File, error) {
	return s.store.ListByUser(ctx, userID)
}

// Download streams a file the caller owns. The returned reader must be
// closed by the caller.
func (s *Service) Download(ctx context.Context, userID, id string) (File, io.ReadCloser, error) {
	f, err := s.store.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return File{}, nil, err
	}

	body, err := s.objects.Get(ctx, f.StoragePath)
	if err != nil {
		return File{}, nil, err
	}
	return f, body, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	f, err := s.store.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.objects.Delete(ctx, f.StoragePath); err != nil {
		return err
	}
	return s.store.Delete(ctx, f.ID)
}
