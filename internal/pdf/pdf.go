// internal/pdf/pdf.go
// Package pdf prints generated HTML reports to PDF with headless Chrome.
package pdf

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/cardiacqa/eqareport/internal/logging"
	"github.com/cardiacqa/eqareport/internal/util"
)

// A4 in inches.
const (
	a4Width  = 8.27
	a4Height = 11.69

	DefaultTimeout = 60 * time.Second
)

// Options tunes the printout.
type Options struct {
	Timeout   time.Duration
	Landscape bool
	// ExecPath overrides the Chrome binary; empty uses chromedp's lookup.
	ExecPath string
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// FileURL returns the file:// URL chrome needs for a local page.
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

// PrintToPDF renders htmlPath in headless Chrome and writes the printout to
// pdfPath. The whole run is bounded by the configured timeout.
func PrintToPDF(ctx context.Context, htmlPath, pdfPath string, opts Options) error {
	if !util.FileExists(htmlPath) {
		return fmt.Errorf("html report %s not found", htmlPath)
	}
	target, err := FileURL(htmlPath)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", htmlPath, err)
	}

	logging.LogEvent("printing %s (timeout %s)", htmlPath, opts.timeout())
	ctx, cancel := context.WithTimeout(ctx, opts.timeout())
	defer cancel()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Flag("headless", true))
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var data []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithLandscape(opts.Landscape).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				Do(ctx)
			if err != nil {
				return err
			}
			data = buf
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("print %s: %w", htmlPath, err)
	}

	if err := util.WriteFileAtomic(pdfPath, data); err != nil {
		return fmt.Errorf("write %s: %w", pdfPath, err)
	}
	logging.LogArtifact("pdf", pdfPath, fmt.Sprintf("%d bytes", len(data)))
	return nil
}

// OutputPath swaps the extension of an HTML report for .pdf.
func OutputPath(htmlPath string) string {
	return htmlPath[:len(htmlPath)-len(filepath.Ext(htmlPath))] + ".pdf"
}
