// Package export renders chat transcripts as PDF documents.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog/log"

	"docqa/internal/domain"
)

// MIMEType is the content type of exported transcripts.
const MIMEType = "application/pdf"

const (
	pageHeight = 792.0 // US Letter, points
	margin     = 54.0
	fontSize   = 12.0
	lineHeight = 14.0
	wrapWidth  = 100
)

// ChatPDF renders turns into an in-memory PDF, one "You: "/"Bot: " prefixed
// paragraph per turn. An empty log yields a single blank page.
func ChatPDF(turns []domain.ChatTurn) (*bytes.Reader, error) {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetFont("Helvetica", "", fontSize)
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.AddPage()

	y := margin + lineHeight
	for i, turn := range turns {
		if i > 0 {
			y += lineHeight
		}
		for _, line := range Wrap(prefix(turn.Role)+turn.Message, wrapWidth) {
			if y > pageHeight-margin {
				doc.AddPage()
				y = margin + lineHeight
			}
			doc.Text(margin, y, tr(asciiMarkers.Replace(line)))
			y += lineHeight
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExport, err)
	}
	log.Debug().Int("turns", len(turns)).Int("pages", doc.PageCount()).Int("bytes", buf.Len()).Msg("rendered chat pdf")
	return bytes.NewReader(buf.Bytes()), nil
}

// SaveChat renders turns and writes the document to path.
func SaveChat(turns []domain.ChatTurn, path string) error {
	r, err := ChatPDF(turns)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrExport, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("%w: %w", domain.ErrExport, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrExport, err)
	}
	log.Info().Str("file", path).Str("mime", MIMEType).Int64("bytes", r.Size()).Msg("exported chat history")
	return nil
}

// asciiMarkers replaces symbols the core fonts cannot draw.
var asciiMarkers = strings.NewReplacer("⚠️", "[!]", "⚠", "[!]")

func prefix(role domain.Role) string {
	if role == domain.RoleUser {
		return "You: "
	}
	return "Bot: "
}

// Wrap breaks text into lines of at most width characters, on word
// boundaries where possible. Explicit newlines are kept.
func Wrap(text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		var cur strings.Builder
		curLen := 0
		for _, w := range words {
			for utf8.RuneCountInString(w) > width {
				if curLen > 0 {
					lines = append(lines, cur.String())
					cur.Reset()
					curLen = 0
				}
				r := []rune(w)
				lines = append(lines, string(r[:width]))
				w = string(r[width:])
			}
			n := utf8.RuneCountInString(w)
			if curLen > 0 && curLen+1+n > width {
				lines = append(lines, cur.String())
				cur.Reset()
				curLen = 0
			}
			if curLen > 0 {
				cur.WriteByte(' ')
				curLen++
			}
			cur.WriteString(w)
			curLen += n
		}
		if curLen > 0 {
			lines = append(lines, cur.String())
		}
	}
	return lines
}
