package ingest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/spevenexe/S25-NLP-project/internal/config"
)

var ErrExtractTimeout = errors.New("page extraction timed out")

type rawPage struct {
	Number  int
	Content string
}

// extractPDF reads every page it can. A page that fails or times out is skipped.
func (s *service) extractPDF(path string) ([]rawPage, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []rawPage
	numPages := f.NumPage()
	s.logger.Debug("extractPDF", "pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page, s.pageTimeout)
		if err != nil {
			s.logger.Warn("Error parsing page content", "page", i, "err", err)
			continue
		}

		pages = append(pages, rawPage{Number: i, Content: content})
	}
	return pages, nil
}

// protectExtract bounds GetPlainText, which can spin on malformed content streams.
func protectExtract(page pdf.Page, timeout time.Duration) (content string, err error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{err: fmt.Errorf("page extraction panicked: %v", r)}
			}
		}()
		text, err := page.GetPlainText(nil)
		resChan <- result{text, err}
	}()

	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(timeout):
		return "", ErrExtractTimeout
	}
}

func joinPages(pages []rawPage) string {
	var b strings.Builder
	for i, p := range pages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(strings.TrimSpace(p.Content))
	}
	return b.String()
}

func pageTimeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return config.PageExtractTimeout
	}
	return d
}
