package pdf

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// Gaps are measured in multiples of the font size of the following run.
	wordGapFactor = 0.2
	cellGapFactor = 1.5
)

// PlainTextMethod reads the text layer page by page with no separator
// between pages.
type PlainTextMethod struct{}

func (PlainTextMethod) Name() string { return "plain" }

func (PlainTextMethod) ExtractText(ctx context.Context, path string) (text string, err error) {
	defer recoverParser(&err)

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	fonts := make(map[string]*pdf.Font)
	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}

		pageText, err := p.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("read page %d: %w", i, err)
		}
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}

// RowTextMethod rebuilds each page from positioned text runs grouped into
// rows. Wide horizontal gaps become tabs so table cells stay apart.
type RowTextMethod struct{}

func (RowTextMethod) Name() string { return "rows" }

func (RowTextMethod) ExtractText(ctx context.Context, path string) (text string, err error) {
	defer recoverParser(&err)

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("read rows of page %d: %w", i, err)
		}
		sb.WriteString(layoutRows(rows))
	}
	return sb.String(), nil
}

// layoutRows renders rows top to bottom, one line per row.
func layoutRows(rows pdf.Rows) string {
	var sb strings.Builder
	for _, row := range rows {
		if row == nil || len(row.Content) == 0 {
			continue
		}
		texts := make([]pdf.Text, len(row.Content))
		copy(texts, row.Content)
		sort.SliceStable(texts, func(a, b int) bool { return texts[a].X < texts[b].X })

		var line strings.Builder
		prevEnd := 0.0
		for i, t := range texts {
			if i > 0 {
				size := t.FontSize
				if size <= 0 {
					size = 1
				}
				gap := t.X - prevEnd
				switch {
				case gap > size*cellGapFactor:
					line.WriteByte('\t')
				case gap > size*wordGapFactor:
					line.WriteByte(' ')
				}
			}
			line.WriteString(t.S)
			prevEnd = t.X + t.W
		}

		if s := strings.TrimRight(line.String(), " \t"); s != "" {
			sb.WriteString(s)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// recoverParser turns a parser panic on malformed input into an error.
func recoverParser(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("pdf parser panic: %v", r)
	}
}
