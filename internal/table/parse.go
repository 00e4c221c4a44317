package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoTable is returned by FromHTML when the selector matches nothing.
var ErrNoTable = errors.New("no table found")

// FromCSV reads a CSV document whose first record is the header row.
func FromCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	t := New(header...)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record %d: %w", t.Len()+1, err)
		}
		values := make([]any, len(rec))
		for i, v := range rec {
			values[i] = v
		}
		if err := t.AddRow(values...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// FromHTML parses the first element matching selector ("table" when empty)
// in an HTML document. Column names come from the th cells of the first row
// that has any; otherwise they are numbered "0", "1", ... Rows shorter than
// the header are padded with empty strings, longer rows are truncated.
func FromHTML(r io.Reader, selector string) (*Table, error) {
	if selector == "" {
		selector = "table"
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w for selector %q", ErrNoTable, selector)
	}

	var header []string
	var body [][]string
	sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if header == nil && tr.Find("th").Length() > 0 {
			tr.Find("th").Each(func(_ int, th *goquery.Selection) {
				header = append(header, cellText(th))
			})
			return
		}
		var row []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			row = append(row, cellText(td))
		})
		if len(row) > 0 {
			body = append(body, row)
		}
	})

	if header == nil {
		width := 0
		for _, row := range body {
			width = max(width, len(row))
		}
		for i := 0; i < width; i++ {
			header = append(header, fmt.Sprint(i))
		}
	}

	t := New(header...)
	for _, row := range body {
		values := make([]any, len(header))
		for i := range values {
			values[i] = ""
			if i < len(row) {
				values[i] = row[i]
			}
		}
		if err := t.AddRow(values...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func cellText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
