package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type FileKind string

const (
	KindInterview FileKind = "interviews"
	KindResume    FileKind = "resumes"
)

var ErrInvalidFileType = errors.New("invalid file type")

var allowedExtensions = map[FileKind][]string{
	KindInterview: {".webm", ".mp4", ".mov", ".mkv"},
	KindResume:    {".pdf", ".txt"},
}

// StoredFile is an upload written under the upload root. PublicPath is the
// URL path it is served from.
type StoredFile struct {
	Filename   string
	Path       string
	PublicPath string
}

type StorageService interface {
	SaveFile(file *multipart.FileHeader, kind FileKind) (*StoredFile, error)
	GetFilePath(kind FileKind, filename string) string
	DeleteFile(kind FileKind, filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	for kind := range allowedExtensions {
		if err := os.MkdirAll(filepath.Join(s.uploadPath, string(kind)), 0755); err != nil {
			return fmt.Errorf("failed to create upload directory: %w", err)
		}
	}
	return nil
}

func (s *storageService) SaveFile(file *multipart.FileHeader, kind FileKind) (*StoredFile, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	// Browser recorders often upload a bare "blob".
	if ext == "" && kind == KindInterview {
		ext = ".webm"
	}
	if !isAllowedExtension(kind, ext) {
		return nil, fmt.Errorf("%w: %q for %s", ErrInvalidFileType, ext, kind)
	}

	uniqueFilename := fmt.Sprintf("%s-%s%s", strings.TrimSuffix(string(kind), "s"), uuid.New().String(), ext)
	filePath := s.GetFilePath(kind, uniqueFilename)

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(filePath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &StoredFile{
		Filename:   uniqueFilename,
		Path:       filePath,
		PublicPath: path.Join("/uploads", string(kind), uniqueFilename),
	}, nil
}

func (s *storageService) GetFilePath(kind FileKind, filename string) string {
	return filepath.Join(s.uploadPath, string(kind), filepath.Base(filename))
}

func (s *storageService) DeleteFile(kind FileKind, filename string) error {
	if err := os.Remove(s.GetFilePath(kind, filename)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func isAllowedExtension(kind FileKind, ext string) bool {
	for _, allowed := range allowedExtensions[kind] {
		if ext == allowed {
			return true
		}
	}
	return false
}
