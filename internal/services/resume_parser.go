package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrNoText = errors.New("no text content found in document")

type ResumeParserService interface {
	ExtractText(filePath string) (string, error)
}

type resumeParserService struct{}

func NewResumeParserService() ResumeParserService {
	return &resumeParserService{}
}

// ExtractText reads .pdf with the pdf reader and .txt as-is.
func (p *resumeParserService) ExtractText(filePath string) (string, error) {
	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		text, err = extractPDFText(filePath)
	case ".txt":
		var raw []byte
		raw, err = os.ReadFile(filePath)
		text = string(raw)
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidFileType, filepath.Ext(filePath))
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func extractPDFText(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}
	return textBuilder.String(), nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleanedLines := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}
	return strings.Join(cleanedLines, "\n")
}
