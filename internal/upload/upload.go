// Package upload stores citizen attachments on local disk.
package upload

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"mlaconnect/backend/internal/apperror"
	"mlaconnect/backend/internal/models"
)

const invalidTypeMessage = "Invalid file type, only images, videos, and PDFs are allowed!"

// URLPrefix is where the router serves Dir; stored URLs live under it
// wherever Dir is on disk.
const URLPrefix = "/uploads"

type Store struct {
	Dir      string
	MaxFiles int
	MaxBytes int64
	Log      *zap.Logger
	now      func() time.Time
}

func NewStore(dir string, maxFiles int, maxBytes int64, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{Dir: dir, MaxFiles: maxFiles, MaxBytes: maxBytes, Log: log, now: time.Now}, nil
}

// Classify maps a sniffed MIME type onto the attachment kinds the API accepts.
func Classify(mt *mimetype.MIME) (models.FileType, bool) {
	switch {
	case strings.HasPrefix(mt.String(), "image/"):
		return models.FileImage, true
	case strings.HasPrefix(mt.String(), "video/"):
		return models.FileVideo, true
	case mt.Is("application/pdf"):
		return models.FilePDF, true
	}
	return "", false
}

// Save validates and writes every file. Either all files are stored or none.
func (s *Store) Save(files []*multipart.FileHeader) ([]models.MediaFile, error) {
	if len(files) > s.MaxFiles {
		return nil, apperror.BadRequest(fmt.Sprintf("You can upload at most %d files.", s.MaxFiles))
	}

	media := make([]models.MediaFile, 0, len(files))
	for _, fh := range files {
		m, err := s.saveOne(fh)
		if err != nil {
			s.Remove(media)
			return nil, err
		}
		media = append(media, m)
	}
	return media, nil
}

func (s *Store) saveOne(fh *multipart.FileHeader) (models.MediaFile, error) {
	if fh.Size > s.MaxBytes {
		return models.MediaFile{}, apperror.BadRequest(fmt.Sprintf("File %s is larger than %d MB.", fh.Filename, s.MaxBytes>>20))
	}

	src, err := fh.Open()
	if err != nil {
		return models.MediaFile{}, err
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return models.MediaFile{}, err
	}
	kind, ok := Classify(mt)
	if !ok {
		return models.MediaFile{}, apperror.BadRequest(invalidTypeMessage)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return models.MediaFile{}, err
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = mt.Extension()
	}
	name, err := s.fileName(ext)
	if err != nil {
		return models.MediaFile{}, err
	}

	dst, err := os.OpenFile(filepath.Join(s.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return models.MediaFile{}, err
	}
	if _, err := io.Copy(dst, io.LimitReader(src, s.MaxBytes+1)); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return models.MediaFile{}, err
	}
	if err := dst.Close(); err != nil {
		return models.MediaFile{}, err
	}

	return models.MediaFile{URL: path.Join(URLPrefix, name), FileType: kind}, nil
}

func (s *Store) fileName(ext string) (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("media-%d-%s%s", s.now().UnixMilli(), hex.EncodeToString(b), ext), nil
}

// Remove deletes stored files, for rolling back after a failed database write.
func (s *Store) Remove(media []models.MediaFile) {
	for _, m := range media {
		p := filepath.Join(s.Dir, path.Base(m.URL))
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			s.Log.Warn("failed to remove upload", zap.String("path", p), zap.Error(err))
		}
	}
}
