package brochure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	listingapp "github.com/emlak/backend/internal/application/listing"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// A4 portrait in inches, 12mm margins
const (
	a4Width  = 210 / 25.4
	a4Height = 297 / 25.4
	margin   = 12 / 25.4
)

// ErrRendererDisabled is returned when brochure rendering is switched off
var ErrRendererDisabled = shared.NewDomainError("BROCHURE_DISABLED", "PDF brochures are not available")

// ChromedpRenderer prints HTML brochures to PDF with headless Chrome
type ChromedpRenderer struct {
	timeout     time.Duration
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a renderer that either attaches to a remote
// Chrome (cfg.RemoteURL) or launches a local one.
func NewChromedpRenderer(cfg config.BrochureConfig, logger *zap.Logger) *ChromedpRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &ChromedpRenderer{
		timeout: cfg.Timeout,
		logger:  logger,
	}
	if r.timeout <= 0 {
		r.timeout = defaultTimeout
	}

	if cfg.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		return r
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return r
}

// RenderPDF loads the document into a fresh tab and prints it
func (r *ChromedpRenderer) RenderPDF(ctx context.Context, title, body string) ([]byte, error) {
	if strings.TrimSpace(body) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Brochure HTML is empty")
	}
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tabCtx, tabCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer tabCancel()

	// Tie the tab to the request deadline.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	document := completeDocument(title, body)
	var pdf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, document).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithMarginTop(margin).
				WithMarginRight(margin).
				WithMarginBottom(margin).
				WithMarginLeft(margin).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("brochure rendering timed out after %v: %w", r.timeout, err)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, fmt.Errorf("render brochure: %w", err)
	}
	if len(pdf) == 0 {
		return nil, errors.New("render brochure: empty PDF")
	}

	r.logger.Info("Brochure rendered",
		zap.String("title", title),
		zap.Int("bytes", len(pdf)),
		zap.Duration("duration", time.Since(start)),
	)
	return pdf, nil
}

// Close shuts the browser allocator down
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

// completeDocument wraps an HTML fragment into a full document. Complete
// documents are returned unchanged.
func completeDocument(title, body string) string {
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return body
	}
	var buf bytes.Buffer
	buf.WriteString(`<!DOCTYPE html><html lang="tr"><head><meta charset="UTF-8">`)
	if title != "" {
		buf.WriteString("<title>")
		buf.WriteString(html.EscapeString(title))
		buf.WriteString("</title>")
	}
	buf.WriteString("</head><body>")
	buf.WriteString(body)
	buf.WriteString("</body></html>")
	return buf.String()
}

// DisabledRenderer rejects every request with ErrRendererDisabled
type DisabledRenderer struct{}

// RenderPDF always fails
func (DisabledRenderer) RenderPDF(context.Context, string, string) ([]byte, error) {
	return nil, ErrRendererDisabled
}

// NewRenderer returns a chromedp renderer when brochures are enabled
func NewRenderer(cfg config.BrochureConfig, logger *zap.Logger) listingapp.PDFRenderer {
	if !cfg.Enabled {
		return DisabledRenderer{}
	}
	return NewChromedpRenderer(cfg, logger)
}

var (
	_ listingapp.PDFRenderer = (*ChromedpRenderer)(nil)
	_ listingapp.PDFRenderer = DisabledRenderer{}
)
