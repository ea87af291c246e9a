package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/dslipak/pdf"
)

// pdfText extracts the text of every readable page of a PDF.
// A page that fails to parse is skipped; a document that fails to open
// yields the empty string. Both cases are logged, neither is fatal.
func (e *Extractor) pdfText(path string) string {
	f, err := os.Open(path)
	if err != nil {
		e.logger.Warn("skipping unreadable PDF", "path", path, "err", err)
		return ""
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		e.logger.Warn("skipping unreadable PDF", "path", path, "err", err)
		return ""
	}

	reader, err := readerFor(f, info.Size())
	if err != nil {
		e.logger.Warn("skipping broken PDF", "path", path, "err", err)
		return ""
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		text, err := pageText(reader, i)
		if err != nil {
			e.logger.Debug("skipping broken PDF page", "path", path, "page", i, "err", err)
			continue
		}
		if text != "" {
			pages = append(pages, text)
		}
	}
	return CleanText(strings.Join(pages, " "))
}

// readerFor guards pdf.NewReader, which can panic on malformed files.
func readerFor(f *os.File, size int64) (reader *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed PDF: %v", rec)
		}
	}()
	return pdf.NewReader(f, size)
}

// pageText guards per-page extraction; the underlying parser panics on
// some malformed content streams.
func pageText(reader *pdf.Reader, n int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d: %v", n, rec)
		}
	}()

	page := reader.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
