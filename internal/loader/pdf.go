package loader

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// ReadPDF concatenates the plain text of every page. Pages without
// extractable text contribute nothing; only failing to open the file is an error.
func ReadPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var text strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		content, err := pageText(reader, i)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Int("page", i).Msg("no text extracted from page")
			continue
		}
		if text.Len() > 0 && content != "" {
			text.WriteByte('\n')
		}
		text.WriteString(content)
	}
	return text.String(), nil
}

// pageText recovers from malformed content streams, which the pdf package
// reports by panicking.
func pageText(reader *pdf.Reader, n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: %v", n, r)
		}
	}()
	page := reader.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
