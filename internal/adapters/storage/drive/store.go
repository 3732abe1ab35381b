// Package drive stores the ledger as a plain text file in Google Drive.
package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bnema/notesgit/internal/domain"
	"github.com/bnema/notesgit/internal/ports"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	ledgerMimeType   = "text/plain"
	defaultChunkSize = 256 * 1024
	listFields       = "files(id, name)"
)

type Store struct {
	files     *gdrive.FilesService
	chunkSize int
}

var _ ports.LedgerStore = (*Store)(nil)

type Option func(*Store)

// WithChunkSize sets the buffer size used while streaming downloads.
func WithChunkSize(size int) Option {
	return func(s *Store) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

func NewStore(service *gdrive.Service, opts ...Option) *Store {
	store := &Store{files: service.Files, chunkSize: defaultChunkSize}
	for _, opt := range opts {
		opt(store)
	}

	return store
}

// NewService builds a Drive client on top of an already authorized HTTP
// client. endpoint is only set by tests.
func NewService(ctx context.Context, client *http.Client, endpoint string) (*gdrive.Service, error) {
	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	service, err := gdrive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return service, nil
}

func (s *Store) Find(ctx context.Context, name string) ([]domain.LedgerHandle, error) {
	list, err := s.files.List().
		Q(NameQuery(name)).
		Spaces("drive").
		Fields(listFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list drive files: %w", err)
	}

	handles := make([]domain.LedgerHandle, 0, len(list.Files))
	for _, file := range list.Files {
		if file.Id == "" {
			continue
		}
		handles = append(handles, domain.LedgerHandle(file.Id))
	}

	return handles, nil
}

func (s *Store) Download(ctx context.Context, handle domain.LedgerHandle) (string, error) {
	if handle.IsZero() {
		return "", domain.ErrLedgerNotFound
	}

	resp, err := s.files.Get(handle.String()).Context(ctx).Download()
	if err != nil {
		return "", mapError("download drive file", handle, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var content bytes.Buffer
	if _, err := io.CopyBuffer(&content, resp.Body, make([]byte, s.chunkSize)); err != nil {
		return "", fmt.Errorf("read drive file %s: %w", handle, err)
	}

	return strings.ToValidUTF8(content.String(), "\uFFFD"), nil
}

func (s *Store) Create(ctx context.Context, name string, content string) (domain.LedgerHandle, error) {
	file, err := s.files.Create(&gdrive.File{Name: name, MimeType: ledgerMimeType}).
		Media(strings.NewReader(content), googleapi.ContentType(ledgerMimeType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("create drive file %q: %w", name, err)
	}
	if file.Id == "" {
		return "", fmt.Errorf("create drive file %q: response has no id", name)
	}

	return domain.LedgerHandle(file.Id), nil
}

func (s *Store) Replace(ctx context.Context, handle domain.LedgerHandle, content string) error {
	_, err := s.files.Update(handle.String(), &gdrive.File{}).
		Media(strings.NewReader(content), googleapi.ContentType(ledgerMimeType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return mapError("update drive file", handle, err)
	}

	return nil
}

// NameQuery builds the files.list query matching non-trashed files named
// exactly name.
func NameQuery(name string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(name)
	return fmt.Sprintf("name = '%s' and trashed = false", escaped)
}

func mapError(op string, handle domain.LedgerHandle, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", op, handle, domain.ErrLedgerNotFound)
	}

	return fmt.Errorf("%s %s: %w", op, handle, err)
}
