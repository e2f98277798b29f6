// Package pdf wraps the Poppler command line tools used to inspect, read,
// and rasterize PDF documents.
package pdf

import (
	"bytes"
	"context"
	"time"
)

// classifyWindow is how many leading bytes are inspected when classifying a
// buffer as PDF.
const classifyWindow = 128

// Toolkit is the set of PDF operations the extraction pipeline needs.
type Toolkit interface {
	// PageText extracts the text layer of one page (1-based).
	PageText(ctx context.Context, path string, page int) (string, error)

	// PageCount returns the number of pages in the document.
	PageCount(ctx context.Context, path string) (int, error)

	// CreationDate returns the document's creation timestamp from its
	// metadata, or ok=false when the document carries none.
	CreationDate(ctx context.Context, path string) (created time.Time, ok bool, err error)

	// RenderPage rasterizes one page (1-based) to JPEG bytes.
	RenderPage(ctx context.Context, path string, page int) ([]byte, error)
}

// IsPDF classifies a byte buffer by its leading bytes. Some publishers
// prepend whitespace or junk before the magic, so it is searched within the
// first 128 bytes rather than required at offset zero.
func IsPDF(buf []byte) bool {
	head := buf
	if len(head) > classifyWindow {
		head = head[:classifyWindow]
	}
	return bytes.Contains(head, []byte("%PDF-"))
}
