package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	base64LineLength   = 76
	defaultContentType = "application/octet-stream"
)

// extensionTypes backs up mime.TypeByExtension on hosts with a sparse mime
// database.
var extensionTypes = map[string]string{
	".txt":  "text/plain",
	".csv":  "text/csv",
	".html": "text/html",
	".json": "application/json",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".zip":  "application/zip",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// DetectContentType guesses a MIME type from the file extension, falling back
// to application/octet-stream.
func DetectContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return defaultContentType
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return defaultContentType
}

// buildMessage renders an RFC 5322 message: a multipart/mixed envelope with a
// text/plain body part followed by one base64 part per attachment.
func buildMessage(payload *Payload, from string, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	headers := map[string]string{
		"From":         from,
		"To":           strings.Join(payload.To, ", "),
		"Subject":      mime.QEncoding.Encode("UTF-8", sanitizeHeaderValue(payload.Subject)),
		"Date":         now.UTC().Format(time.RFC1123Z),
		"MIME-Version": "1.0",
		"Content-Type": fmt.Sprintf("multipart/mixed; boundary=%q", mw.Boundary()),
	}
	if payload.MessageID != "" {
		headers["Message-Id"] = "<" + sanitizeHeaderValue(payload.MessageID) + ">"
	}

	var head bytes.Buffer
	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if headers[key] == "" {
			continue
		}
		head.WriteString(key)
		head.WriteString(": ")
		head.WriteString(headers[key])
		head.WriteString("\r\n")
	}
	head.WriteString("\r\n")

	bodyPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/plain; charset=UTF-8"},
		"Content-Transfer-Encoding": {"8bit"},
	})
	if err != nil {
		return nil, fmt.Errorf("smtp provider: body part: %w", err)
	}
	if _, err := bodyPart.Write([]byte(normalizeBody(payload.Body))); err != nil {
		return nil, fmt.Errorf("smtp provider: body part: %w", err)
	}

	for _, att := range payload.Attachments {
		if att.Filename == "" || len(att.Data) == 0 {
			continue
		}
		contentType := att.ContentType
		if contentType == "" {
			contentType = DetectContentType(att.Filename)
		}
		name := mime.QEncoding.Encode("UTF-8", sanitizeHeaderValue(filepath.Base(att.Filename)))
		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {fmt.Sprintf("%s; name=%q", contentType, name)},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", name)},
		})
		if err != nil {
			return nil, fmt.Errorf("smtp provider: attachment %s: %w", att.Filename, err)
		}
		if err := writeBase64Lines(part, att.Data); err != nil {
			return nil, fmt.Errorf("smtp provider: attachment %s: %w", att.Filename, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("smtp provider: close multipart: %w", err)
	}

	return append(head.Bytes(), buf.Bytes()...), nil
}

func writeBase64Lines(w interface{ Write([]byte) (int, error) }, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	for start := 0; start < len(encoded); start += base64LineLength {
		end := start + base64LineLength
		if end > len(encoded) {
			end = len(encoded)
		}
		if _, err := w.Write([]byte(encoded[start:end] + "\r\n")); err != nil {
			return err
		}
	}
	return nil
}

func normalizeBody(body string) string {
	if body == "" {
		return ""
	}
	normalized := strings.ReplaceAll(body, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.ReplaceAll(normalized, "\n", "\r\n")
}

func sanitizeHeaderValue(value string) string {
	clean := strings.ReplaceAll(value, "\r", " ")
	clean = strings.ReplaceAll(clean, "\n", " ")
	return strings.TrimSpace(clean)
}
