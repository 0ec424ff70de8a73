package convert

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Converter extracts plain text from one document format. Structural
// headings in the source are rendered as markdown-style "#" lines so that
// downstream segmentation can recover the section layout.
type Converter interface {
	Convert(r io.Reader, filename string) (string, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate converter for a filename.
func ForFile(filename string) (Converter, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextConverter{}, nil
	case ".md", ".markdown":
		return &MarkdownConverter{}, nil
	case ".csv":
		return &CSVConverter{}, nil
	case ".html", ".htm":
		return &HTMLConverter{}, nil
	case ".pdf":
		return &PDFConverter{}, nil
	case ".docx":
		return &DOCXConverter{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// ExtractText converts a document to text and strips control characters.
func ExtractText(r io.Reader, filename string) (string, error) {
	conv, err := ForFile(filename)
	if err != nil {
		return "", err
	}
	text, err := conv.Convert(r, filename)
	if err != nil {
		return "", err
	}
	return CleanText(text), nil
}
