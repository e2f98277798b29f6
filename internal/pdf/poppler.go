package pdf

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Options configures the Poppler binaries and render settings.
type Options struct {
	PdfToTextPath string
	PdfInfoPath   string
	PdfToPpmPath  string

	// RenderDPI and RenderScaleTo control rasterization. The vision service
	// needs a high-resolution, large canvas to read the table reliably.
	RenderDPI     int
	RenderScaleTo int
}

// Poppler implements Toolkit by shelling out to pdftotext, pdfinfo, and
// pdftoppm.
type Poppler struct {
	opts Options
}

// NewPoppler creates a Poppler toolkit. Empty paths and zero render settings
// fall back to defaults.
func NewPoppler(opts Options) *Poppler {
	if opts.PdfToTextPath == "" {
		opts.PdfToTextPath = "pdftotext"
	}
	if opts.PdfInfoPath == "" {
		opts.PdfInfoPath = "pdfinfo"
	}
	if opts.PdfToPpmPath == "" {
		opts.PdfToPpmPath = "pdftoppm"
	}
	if opts.RenderDPI == 0 {
		opts.RenderDPI = 500
	}
	if opts.RenderScaleTo == 0 {
		opts.RenderScaleTo = 2000
	}
	return &Poppler{opts: opts}
}

// PageText runs pdftotext -layout on a single page and returns stdout.
func (p *Poppler) PageText(ctx context.Context, path string, page int) (string, error) {
	n := strconv.Itoa(page)
	cmd := exec.CommandContext(ctx, p.opts.PdfToTextPath, "-layout", "-f", n, "-l", n, path, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "pdf: pdftotext failed for %s page %d: %s", path, page, stderr.String())
	}
	return stdout.String(), nil
}

// PageCount reads the page count from pdfinfo.
func (p *Poppler) PageCount(ctx context.Context, path string) (int, error) {
	info, err := p.info(ctx, path)
	if err != nil {
		return 0, err
	}
	raw, ok := info["Pages"]
	if !ok {
		return 0, eris.Errorf("pdf: pdfinfo reported no page count for %s", path)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, eris.Wrapf(err, "pdf: bad page count %q for %s", raw, path)
	}
	return n, nil
}

// creationDateLayouts covers the shapes pdfinfo -isodates emits across
// poppler versions.
var creationDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
}

// CreationDate reads the document creation timestamp from pdfinfo metadata.
func (p *Poppler) CreationDate(ctx context.Context, path string) (time.Time, bool, error) {
	info, err := p.info(ctx, path)
	if err != nil {
		return time.Time{}, false, err
	}
	raw, ok := info["CreationDate"]
	if !ok || raw == "" {
		return time.Time{}, false, nil
	}
	for _, layout := range creationDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, eris.Errorf("pdf: unparseable creation date %q for %s", raw, path)
}

// RenderPage rasterizes one page to JPEG via pdftoppm.
func (p *Poppler) RenderPage(ctx context.Context, path string, page int) ([]byte, error) {
	dir, err := os.MkdirTemp("", "ratekeeper-render-")
	if err != nil {
		return nil, eris.Wrap(err, "pdf: create render dir")
	}
	defer os.RemoveAll(dir) //nolint:errcheck

	n := strconv.Itoa(page)
	prefix := filepath.Join(dir, "page")
	cmd := exec.CommandContext(ctx, p.opts.PdfToPpmPath,
		"-jpeg",
		"-r", strconv.Itoa(p.opts.RenderDPI),
		"-scale-to", strconv.Itoa(p.opts.RenderScaleTo),
		"-f", n, "-l", n,
		"-singlefile",
		path, prefix,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, eris.Wrapf(err, "pdf: pdftoppm failed for %s page %d: %s", path, page, stderr.String())
	}

	img, err := os.ReadFile(prefix + ".jpg")
	if err != nil {
		return nil, eris.Wrapf(err, "pdf: read rendered page %d of %s", page, path)
	}
	return img, nil
}

// info runs pdfinfo -isodates and parses the "Key: value" output.
func (p *Poppler) info(ctx context.Context, path string) (map[string]string, error) {
	cmd := exec.CommandContext(ctx, p.opts.PdfInfoPath, "-isodates", path)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, eris.Wrapf(err, "pdf: pdfinfo failed for %s: %s", path, stderr.String())
	}

	out := make(map[string]string)
	for _, line := range strings.Split(stdout.String(), "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out, nil
}
