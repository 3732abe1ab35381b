package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/bnema/notesgit/internal/domain"
	"github.com/bnema/notesgit/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testLedgerName = "notes_git_data.txt"

func TestLedgerServiceResolveReturnsAbsentWhenNoMatch(t *testing.T) {
	store := mocks.NewMockLedgerStore(t)
	service := NewLedgerService(store, testLedgerName, nil)
	session := NewSession("s-1")

	store.EXPECT().Find(mockAnyContext(), testLedgerName).Return(nil, nil)

	handle, err := service.Resolve(context.Background(), session)
	require.NoError(t, err)
	assert.True(t, handle.IsZero())
	assert.True(t, session.LedgerHandle().IsZero())
}

func TestLedgerServiceResolveCachesHandleOnSession(t *testing.T) {
	store := mocks.NewMockLedgerStore(t)
	service := NewLedgerService(store, testLedgerName, nil)
	session := NewSession("s-1")

	store.EXPECT().Find(mockAnyContext(), testLedgerName).Return([]domain.LedgerHandle{"file-1"}, nil).Once()

	first, err := service.Resolve(context.Background(), session)
	require.NoError(t, err)
	second, err := service.Resolve(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, domain.LedgerHandle("file-1"), first)
	assert.Equal(t, first, second)
}

func TestLedgerServiceResolvePicksFirstOfDuplicates(t *testing.T) {
	store := mocks.NewMockLedgerStore(t)
	service := NewLedgerService(store, testLedgerName, nil)

	store.EXPECT().Find(mockAnyContext(), testLedgerName).Return([]domain.LedgerHandle{"file-b", "file-a"}, nil)

	handle, err := service.Resolve(context.Background(), NewSession("s-1"))
	require.NoError(t, err)
	assert.Equal(t, domain.LedgerHandle("file-b"), handle)
}

func TestLedgerServiceResolveWrapsBackendError(t *testing.T) {
	store := mocks.NewMockLedgerStore(t)
	service := NewLedgerService(store, testLedgerName, nil)
	backendErr := errors.New("quota exceeded")

	store.EXPECT().Find(mockAnyContext(), testLedgerName).Return(nil, backendErr)

	_, err := service.Resolve(context.Background(), NewSession("s-1"))
	require.ErrorIs(t, err, backendErr)
}

func TestLedgerServiceReadAbsentLedgerIsEmpty(t *testing.T) {
	store := mocks.NewMockLedgerStore(t)
	service := NewLedgerService(store, testLedgerName, nil)

	store.EXPECT().Find(mockAnyContext(), testLedgerName).Return(nil, nil)

	content, err := service.Read(context.Background(), NewSession("s-1"))
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestLedgerServiceReadNotFoundIsEmpty(t *testing.T) {
	store := mocks.NewMockLedgerStore(t)
	service := NewLedgerService(store, testLedgerName, nil)

	store.EXPECT().Find(mockAnyContext(), testLedgerName).Return([]domain.LedgerHandle{"gone"}, nil)
	store.EXPECT().Download(mockAnyContext(), domain.LedgerHandle("gone")).Return("", fmt.Errorf("get media: %w", domain.ErrLedgerNotFound))

	content, err := service.Read(context.Background(), NewSession("s-1"))
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestLedgerServiceReadPropagatesOtherErrors(t *testing.T) {
	store := mocks.NewMockLedgerStore(t)
	service := NewLedgerService(store, testLedgerName, nil)
	backendErr := errors.New("connection reset")

	store.EXPECT().Find(mockAnyContext(), testLedgerName).Return([]domain.LedgerHandle{"file-1"}, nil)
	store.EXPECT().Download(mockAnyContext(), domain.LedgerHandle("file-1")).Return("", backendErr)

	_, err := service.Read(context.Background(), NewSession("s-1"))
	require.ErrorIs(t, err, backendErr)
}

func TestLedgerServiceAppendCreatesLedgerWhenAbsent(t *testing.T) {
	store := mocks.NewMockLedgerStore(t)
	service := NewLedgerService(store, testLedgerName, nil)
	session := NewSession("s-1")
	entry := "[DATA: 2024-01-01]\nTest note\n---"

	store.EXPECT().Find(mockAnyContext(), testLedgerName).Return(nil, nil).Once()
	store.EXPECT().Create(mockAnyContext(), testLedgerName, entry).Return(domain.LedgerHandle("new-file"), nil).Once()

	handle, err := service.Append(context.Background(), session, entry)
	require.NoError(t, err)
	assert.Equal(t, domain.LedgerHandle("new-file"), handle)
	assert.Equal(t, handle, session.LedgerHandle())
}

func TestLedgerServiceAppendReplacesFullContent(t *testing.T) {
	store := mocks.NewMockLedgerStore(t)
	service := NewLedgerService(store, testLedgerName, nil)
	session := NewSession("s-1")

	store.EXPECT().Find(mockAnyContext(), testLedgerName).Return([]domain.LedgerHandle{"file-1"}, nil)
	store.EXPECT().Download(mockAnyContext(), domain.LedgerHandle("file-1")).Return("entry1\n\n", nil)
	store.EXPECT().Replace(mockAnyContext(), domain.LedgerHandle("file-1"), "entry1\n\nentry2").Return(nil)

	handle, err := service.Append(context.Background(), session, "entry2")
	require.NoError(t, err)
	assert.Equal(t, domain.LedgerHandle("file-1"), handle)
}

func TestLedgerServiceAppendRecreatesVanishedLedger(t *testing.T) {
	store := mocks.NewMockLedgerStore(t)
	service := NewLedgerService(store, testLedgerName, nil)
	session := NewSession("s-1")

	store.EXPECT().Find(mockAnyContext(), testLedgerName).Return([]domain.LedgerHandle{"stale"}, nil)
	store.EXPECT().Download(mockAnyContext(), domain.LedgerHandle("stale")).Return("", domain.ErrLedgerNotFound)
	store.EXPECT().Replace(mockAnyContext(), domain.LedgerHandle("stale"), "entry").Return(domain.ErrLedgerNotFound)
	store.EXPECT().Create(mockAnyContext(), testLedgerName, "entry").Return(domain.LedgerHandle("fresh"), nil)

	handle, err := service.Append(context.Background(), session, "entry")
	require.NoError(t, err)
	assert.Equal(t, domain.LedgerHandle("fresh"), handle)
	assert.Equal(t, domain.LedgerHandle("fresh"), session.LedgerHandle())
}

func TestLedgerServiceAppendDoesNotWriteWhenDownloadFails(t *testing.T) {
	store := mocks.NewMockLedgerStore(t)
	service := NewLedgerService(store, testLedgerName, nil)
	backendErr := errors.New("503")

	store.EXPECT().Find(mockAnyContext(), testLedgerName).Return([]domain.LedgerHandle{"file-1"}, nil)
	store.EXPECT().Download(mockAnyContext(), domain.LedgerHandle("file-1")).Return("", backendErr)

	_, err := service.Append(context.Background(), NewSession("s-1"), "entry")
	require.ErrorIs(t, err, backendErr)
	store.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerServiceAppendThenReadRoundTrip(t *testing.T) {
	store := newMemoryLedgerStore()
	service := NewLedgerService(store, testLedgerName, nil)
	session := NewSession("s-1")
	entry1 := "[DATA: 2024-01-01]\nTest note\n---"
	entry2 := "[DATA: 2024-01-02]\nSecond note\n---"

	_, err := service.Append(context.Background(), session, entry1)
	require.NoError(t, err)

	content, err := service.Read(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, entry1, content)

	_, err = service.Append(context.Background(), session, entry2)
	require.NoError(t, err)

	content, err = service.Read(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, entry1+"\n\n"+entry2, content)
}

func TestLedgerServiceAppendKeepsExistingTextOnce(t *testing.T) {
	existingCases := []string{"", "alpha", "  alpha\n\nbeta  \n", "zażółć gęślą jaźń"}

	for _, existing := range existingCases {
		t.Run(fmt.Sprintf("%q", existing), func(t *testing.T) {
			store := newMemoryLedgerStore()
			if existing != "" {
				_, err := store.Create(context.Background(), testLedgerName, existing)
				require.NoError(t, err)
			}
			service := NewLedgerService(store, testLedgerName, nil)
			session := NewSession("s-1")

			_, err := service.Append(context.Background(), session, "ENTRY")
			require.NoError(t, err)

			content, err := service.Read(context.Background(), session)
			require.NoError(t, err)

			trimmed := strings.TrimSpace(existing)
			if trimmed != "" {
				assert.Equal(t, trimmed+"\n\nENTRY", content)
				assert.Equal(t, 1, strings.Count(content, trimmed))
			} else {
				assert.Equal(t, "ENTRY", content)
			}
		})
	}
}

func TestLedgerServiceSecondSessionFindsCreatedLedger(t *testing.T) {
	store := newMemoryLedgerStore()
	service := NewLedgerService(store, testLedgerName, nil)

	first := NewSession("s-1")
	_, err := service.Append(context.Background(), first, "one")
	require.NoError(t, err)
	_, err = service.Append(context.Background(), first, "two")
	require.NoError(t, err)

	second := NewSession("s-2")
	handle, err := service.Resolve(context.Background(), second)
	require.NoError(t, err)

	assert.Equal(t, first.LedgerHandle(), handle)
	assert.Equal(t, 1, store.creates)

	handles, err := store.Find(context.Background(), testLedgerName)
	require.NoError(t, err)
	assert.Len(t, handles, 1)
}

func mockAnyContext() interface{} {
	return mock.Anything
}

type memoryLedgerStore struct {
	mu      sync.Mutex
	names   map[domain.LedgerHandle]string
	content map[domain.LedgerHandle]string
	order   []domain.LedgerHandle
	creates int
}

func newMemoryLedgerStore() *memoryLedgerStore {
	return &memoryLedgerStore{
		names:   map[domain.LedgerHandle]string{},
		content: map[domain.LedgerHandle]string{},
	}
}

func (s *memoryLedgerStore) Find(_ context.Context, name string) ([]domain.LedgerHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var handles []domain.LedgerHandle
	for _, handle := range s.order {
		if s.names[handle] == name {
			handles = append(handles, handle)
		}
	}
	return handles, nil
}

func (s *memoryLedgerStore) Download(_ context.Context, handle domain.LedgerHandle) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.content[handle]
	if !ok {
		return "", domain.ErrLedgerNotFound
	}
	return content, nil
}

func (s *memoryLedgerStore) Create(_ context.Context, name string, content string) (domain.LedgerHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creates++
	handle := domain.LedgerHandle(fmt.Sprintf("mem-%d", s.creates))
	s.names[handle] = name
	s.content[handle] = content
	s.order = append(s.order, handle)
	return handle, nil
}

func (s *memoryLedgerStore) Replace(_ context.Context, handle domain.LedgerHandle, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.content[handle]; !ok {
		return domain.ErrLedgerNotFound
	}
	s.content[handle] = content
	return nil
}
