package resume

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

const MimePDF = "application/pdf"

var (
	ErrUnsupportedType = errors.New("only PDF resumes are supported")
	ErrTooLarge        = errors.New("resume exceeds the maximum upload size")
	ErrEmptyDocument   = errors.New("resume file is empty")
)

// ValidateUpload checks a resume upload before it is read. The declared type
// or the file extension must say PDF and size must be within max.
func ValidateUpload(filename, contentType string, size, max int64) error {
	if size <= 0 {
		return ErrEmptyDocument
	}
	if max > 0 && size > max {
		return fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, size, max)
	}
	ct := strings.ToLower(contentType)
	ext := strings.ToLower(filepath.Ext(filename))
	if !strings.Contains(ct, "pdf") && ext != ".pdf" {
		return ErrUnsupportedType
	}
	return nil
}

// SniffPDF confirms the payload really is a PDF.
func SniffPDF(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyDocument
	}
	if http.DetectContentType(data) != MimePDF {
		return ErrUnsupportedType
	}
	return nil
}

// DocExtractor extracts text with docconv, which shells out to pdftotext for
// PDFs. Callers treat extraction errors as "no text".
type DocExtractor struct{}

func NewDocExtractor() *DocExtractor { return &DocExtractor{} }

func (e *DocExtractor) Extract(ctx context.Context, r io.Reader, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if mimeType == "" {
		mimeType = MimePDF
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		res, err := docconv.Convert(r, mimeType, false)
		if err != nil {
			done <- result{err: fmt.Errorf("convert document: %w", err)}
			return
		}
		done <- result{text: strings.TrimSpace(res.Body)}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.text, res.err
	}
}

// StaticExtractor returns fixed text. It stands in for DocExtractor in
// environments without the PDF toolchain.
type StaticExtractor struct {
	Text string
}

func (s StaticExtractor) Extract(ctx context.Context, r io.Reader, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	_, _ = io.Copy(io.Discard, r)
	return s.Text, nil
}

// ReadLimited reads at most max bytes from r and fails with ErrTooLarge when
// more are available.
func ReadLimited(r io.Reader, max int64) ([]byte, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if n > max {
		return nil, ErrTooLarge
	}
	return buf.Bytes(), nil
}
