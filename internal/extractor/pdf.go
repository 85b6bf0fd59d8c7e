package extractor

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// TokenDocument holds the per-page token streams extracted from a PDF. It
// satisfies the parser's Document contract: 1-based pages, each an ordered
// sequence of trimmed, non-empty text fragments in extraction order.
type TokenDocument struct {
	pages [][]string
}

// NewDocument wraps already-materialized page tokens, e.g. tokens extracted
// client-side or built by tests.
func NewDocument(pages [][]string) *TokenDocument {
	return &TokenDocument{pages: pages}
}

func (d *TokenDocument) PageCount() int {
	return len(d.pages)
}

func (d *TokenDocument) PageTokens(page int) []string {
	if page < 1 || page > len(d.pages) {
		return nil
	}
	return d.pages[page-1]
}

// ExtractTokens reads a PDF file and returns its per-page token streams.
// No layout analysis happens here: each text run the PDF library emits
// becomes one token, trimmed, empty runs dropped. Garbage output (scanned
// images, undecodable custom fonts) is rejected rather than handed to the
// parsers.
func ExtractTokens(filePath string) (*TokenDocument, error) {
	pages, err := extractWithLibrary(filePath)
	if err != nil {
		return nil, fmt.Errorf("PDF text extraction failed: %w", err)
	}
	if !isReadableTokens(pages) {
		return nil, fmt.Errorf("no readable text could be extracted from PDF; the file may be image-based/scanned or use custom font encodings")
	}
	return &TokenDocument{pages: pages}, nil
}

// extractWithLibrary pulls text runs out of every page. The library is
// known to panic on malformed files, so the whole walk runs under recover.
func extractWithLibrary(filePath string) (pages [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(filePath)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		tokens := tokensByRow(page)
		if len(tokens) == 0 {
			tokens = tokensByContent(page)
		}
		pages = append(pages, tokens)
	}
	return pages, nil
}

// tokensByRow extracts text runs via GetTextByRow, which preserves the
// run boundaries the parsers depend on.
func tokensByRow(page pdf.Page) []string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return nil
	}
	var tokens []string
	for _, row := range rows {
		for _, word := range row.Content {
			if s := strings.TrimSpace(word.S); s != "" {
				tokens = append(tokens, s)
			}
		}
	}
	return tokens
}

// tokensByContent is the fallback for pages GetTextByRow cannot handle. It
// reads raw text objects, orders them top-to-bottom then left-to-right, and
// merges adjacent pieces into one token unless a large horizontal gap
// separates them.
func tokensByContent(page pdf.Page) []string {
	content := page.Content()
	if len(content.Text) == 0 {
		return nil
	}

	type textItem struct {
		x float64
		s string
	}
	rowMap := make(map[int][]textItem)
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		yKey := int(math.Round(t.Y))
		rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, s: t.S})
	}

	// PDF Y grows bottom-to-top.
	yKeys := make([]int, 0, len(rowMap))
	for y := range rowMap {
		yKeys = append(yKeys, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

	var tokens []string
	for _, y := range yKeys {
		items := rowMap[y]
		sort.Slice(items, func(a, b int) bool {
			return items[a].x < items[b].x
		})

		var run strings.Builder
		var prevX float64
		flush := func() {
			if s := strings.TrimSpace(run.String()); s != "" {
				tokens = append(tokens, s)
			}
			run.Reset()
		}
		for j, item := range items {
			if j > 0 && item.x-prevX > 15 {
				flush()
			}
			run.WriteString(item.s)
			prevX = item.x
		}
		flush()
	}
	return tokens
}
