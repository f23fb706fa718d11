package media

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func img(name string) File {
	return NewFile(name, "", pngHeader)
}

func TestCheckQuota(t *testing.T) {
	assert.NoError(t, CheckQuota(0, 5))
	assert.NoError(t, CheckQuota(3, 2))
	assert.ErrorIs(t, CheckQuota(3, 3), domain.ErrQuotaExceeded)
	assert.ErrorIs(t, CheckQuota(5, 1), domain.ErrQuotaExceeded)
}

func TestFile_Validate(t *testing.T) {
	assert.NoError(t, img("a.png").Validate())

	text := NewFile("notes.txt", "", []byte("hello world"))
	assert.ErrorIs(t, text.Validate(), domain.ErrValidation)

	big := File{Name: "big.jpg", ContentType: "image/jpeg", Data: make([]byte, MaxFileSize+1)}
	assert.ErrorIs(t, big.Validate(), domain.ErrValidation)

	empty := File{Name: "e.png", ContentType: "image/png"}
	assert.ErrorIs(t, empty.Validate(), domain.ErrValidation)
}

func TestFile_Ext(t *testing.T) {
	assert.Equal(t, "jpeg", File{Name: "Photo.JPEG"}.Ext())
	assert.Equal(t, "png", File{Name: "noext", ContentType: "image/png"}.Ext())
	assert.Equal(t, "bin", File{Name: "noext", ContentType: "image/x-unknown"}.Ext())
}

func TestSelection_QuotaLeavesPendingSetUnchanged(t *testing.T) {
	s := NewSelection()
	require.NoError(t, s.Select(img("1.png"), img("2.png"), img("3.png")))

	err := s.Select(img("4.png"), img("5.png"), img("6.png"))
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.Equal(t, 3, s.Len())
	assert.Len(t, s.Previews(), 3)
}

func TestSelection_RejectsNonImageAtomically(t *testing.T) {
	s := NewSelection()
	err := s.Select(img("1.png"), NewFile("doc.txt", "text/plain", []byte("x")))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, s.Len())
}

func TestSelection_RemoveCompacts(t *testing.T) {
	s := NewSelection()
	require.NoError(t, s.Select(img("a.png"), img("b.png"), img("c.png")))

	require.NoError(t, s.Remove(1))

	files := s.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "a.png", files[0].Name)
	assert.Equal(t, "c.png", files[1].Name)
	assert.Len(t, s.Previews(), 2)

	assert.ErrorIs(t, s.Remove(2), domain.ErrValidation)
	assert.ErrorIs(t, s.Remove(-1), domain.ErrValidation)
}

func TestPreview_DataURL(t *testing.T) {
	p := NewPreview(File{Name: "a.png", ContentType: "image/png", Data: []byte("abc")})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	url, err := p.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,YWJj", url)
	assert.True(t, p.Ready())
}

func TestObjectKey(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	assert.Equal(t, "u1/ad1/1700000000123-2.jpg", ObjectKey("u1", "ad1", at, 2, "jpg"))
}

type fakeStorage struct {
	mu     sync.Mutex
	failOn map[string]bool
	keys   []string
}

func (s *fakeStorage) Upload(_ context.Context, key string, _ []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name := range s.failOn {
		if strings.Contains(key, name) {
			return errors.New("storage unavailable")
		}
	}
	s.keys = append(s.keys, key)
	return nil
}

func (s *fakeStorage) PublicURL(key string) string {
	return "https://cdn.example.com/ad-images/" + key
}

func TestUploader_UploadAll_PartialFailureKeepsOrder(t *testing.T) {
	storage := &fakeStorage{failOn: map[string]bool{"-1.": true}}
	u := NewUploader(storage, logger.NewNop(), 3)
	u.now = func() time.Time { return time.UnixMilli(42) }

	res := u.UploadAll(context.Background(), "u1", "ad1", []File{img("a.png"), img("b.png"), img("c.png")})

	assert.Equal(t, []string{
		"https://cdn.example.com/ad-images/u1/ad1/42-0.png",
		"https://cdn.example.com/ad-images/u1/ad1/42-2.png",
	}, res.URLs)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, 1, res.Failed[0].Index)
	assert.Equal(t, "b.png", res.Failed[0].Name)
}

func TestUploader_UploadAll_Empty(t *testing.T) {
	u := NewUploader(&fakeStorage{}, logger.NewNop(), 2)
	res := u.UploadAll(context.Background(), "u1", "ad1", nil)
	assert.NotNil(t, res.URLs)
	assert.Empty(t, res.URLs)
	assert.Empty(t, res.Failed)
}

func TestUploader_UploadAll_CancelledContext(t *testing.T) {
	storage := &fakeStorage{}
	u := NewUploader(storage, logger.NewNop(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := u.UploadAll(ctx, "u1", "ad1", []File{img("a.png"), img("b.png")})

	assert.Empty(t, res.URLs)
	assert.Len(t, res.Failed, 2)
	assert.Empty(t, storage.keys)
}
