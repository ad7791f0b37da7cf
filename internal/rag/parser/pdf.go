package parser

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/dslipak/pdf"
)

const pageExtractTimeout = 10 * time.Second

// extractPDF pulls text from every page in document order and joins pages
// with newlines. It accepts either the stored file path or the in-memory
// bytes; pages that fail to decode are skipped, not fatal.
func extractPDF(path string, raw []byte) string {
	var (
		reader *pdf.Reader
		err    error
	)
	if len(raw) > 0 {
		reader, err = pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	} else {
		reader, err = pdf.Open(path)
	}
	if err != nil {
		logger.Error("failed opening pdf", "path", path, "error", err)
		return ""
	}

	var pages []string
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := safePageText(page)
		if err != nil {
			logger.Error("Error parsing page content", "page", i, "error", err)
			continue
		}
		pages = append(pages, content)
	}
	return strings.Join(pages, "\n")
}

// safePageText extracts one page under a timeout. The pdf library can hang or
// panic on malformed streams, so the call runs in its own goroutine with a
// recover.
func safePageText(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{"", errors.New("panic in page extraction")}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()

	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(pageExtractTimeout):
		return "", errors.New("timeout")
	}
}
