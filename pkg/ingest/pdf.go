package ingest

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"
)

// pageSeparator joins the text of consecutive pages.
const pageSeparator = "\n\n"

// ExtractPDF returns the plain text of every page in data, in page order.
// Pages are extracted concurrently; any page failure fails the whole document.
func ExtractPDF(ctx context.Context, data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, pages = "", 0
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}

	n := reader.NumPage()
	if n <= 0 {
		return "", 0, nil
	}

	slots := make([]string, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := range n {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("page %d: %v", i+1, r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}

			page := reader.Page(i + 1)
			if page.V.IsNull() {
				return nil
			}
			content, err := page.GetPlainText(nil)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			slots[i] = strings.TrimSpace(content)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", 0, err
	}

	return strings.Join(slots, pageSeparator), n, nil
}
