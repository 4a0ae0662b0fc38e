package analysis

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/JasperZhi/hk-ipo-engine/internal/interfaces"
)

// mimeByExtension maps common office/document extensions to their MIME
// types. Unknown extensions fall back to application/octet-stream.
var mimeByExtension = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// inferMIMEType returns the declared MIME type when present, otherwise
// infers one from the file extension.
func inferMIMEType(path, declared string) string {
	if declared != "" {
		return declared
	}
	ext := strings.ToLower(filepath.Ext(path))
	if mime, ok := mimeByExtension[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// loadAttachment reads the evidence document into an inline part. PDF
// attachments additionally get a readability probe so an unreadable file is
// rejected here rather than as an opaque backend failure.
func loadAttachment(path, declaredMIME string) (*interfaces.AttachmentPart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	mimeType := inferMIMEType(path, declaredMIME)
	if mimeType == "application/pdf" {
		if _, err := pdf.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
			return nil, fmt.Errorf("corrupt PDF: %w", err)
		}
	}

	return &interfaces.AttachmentPart{
		Data:     data,
		MIMEType: mimeType,
	}, nil
}
