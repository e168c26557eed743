package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mlaconnect/backend/internal/apperror"
	"mlaconnect/backend/internal/models"
)

var (
	pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	pdfHeader = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
)

type part struct {
	name string
	data []byte
}

// fileHeaders builds real multipart headers by round-tripping through a request.
func fileHeaders(t *testing.T, parts ...part) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, p := range parts {
		fw, err := w.CreateFormFile("media", p.name)
		require.NoError(t, err)
		_, err = fw.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["media"]
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), 5, 1<<20, zap.NewNop())
	require.NoError(t, err)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s
}

func TestSave_StoresImagesAndPDFs(t *testing.T) {
	s := newTestStore(t)

	media, err := s.Save(fileHeaders(t,
		part{"photo.PNG", pngHeader},
		part{"letter.pdf", pdfHeader},
	))

	require.NoError(t, err)
	require.Len(t, media, 2)
	assert.Equal(t, models.FileImage, media[0].FileType)
	assert.Equal(t, models.FilePDF, media[1].FileType)
	assert.Regexp(t, `^/uploads/media-1700000000000-[0-9a-f]{12}\.png$`, media[0].URL)

	entries, err := os.ReadDir(s.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSave_RejectsUnknownType(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Save(fileHeaders(t,
		part{"photo.png", pngHeader},
		part{"notes.txt", []byte("just some text")},
	))

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, invalidTypeMessage, appErr.Message)

	entries, _ := os.ReadDir(s.Dir)
	assert.Empty(t, entries, "earlier files are rolled back")
}

func TestSave_TooManyFiles(t *testing.T) {
	s := newTestStore(t)
	s.MaxFiles = 1

	_, err := s.Save(fileHeaders(t, part{"a.png", pngHeader}, part{"b.png", pngHeader}))

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestSave_TooLarge(t *testing.T) {
	s := newTestStore(t)
	s.MaxBytes = 8

	_, err := s.Save(fileHeaders(t, part{"a.png", pngHeader}))

	_, ok := apperror.As(err)
	assert.True(t, ok)
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)
	media, err := s.Save(fileHeaders(t, part{"a.png", pngHeader}))
	require.NoError(t, err)

	s.Remove(media)

	_, err = os.Stat(filepath.Join(s.Dir, filepath.Base(media[0].URL)))
	assert.True(t, os.IsNotExist(err))
}

func TestClassify(t *testing.T) {
	kind, ok := Classify(mimetype.Detect(pdfHeader))
	assert.True(t, ok)
	assert.Equal(t, models.FilePDF, kind)

	_, ok = Classify(mimetype.Detect([]byte("plain text")))
	assert.False(t, ok)
}
