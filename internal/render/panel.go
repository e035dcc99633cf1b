package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog/log"

	"github.com/nexovate/fypadvisor/internal/fetch"
)

// MockupsHeading introduces the image pages.
const MockupsHeading = "UI Screens / Mockups"

// ImageSource fetches the raw bytes behind an image URL.
type ImageSource interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ImageSourceFunc adapts a function to ImageSource.
type ImageSourceFunc func(ctx context.Context, url string) ([]byte, error)

func (f ImageSourceFunc) Fetch(ctx context.Context, url string) ([]byte, error) { return f(ctx, url) }

// AddImagePanel appends the mock-up section: a new page with the section
// heading, the first image below it, then one further page per image. Each
// image is scaled uniformly to the usable rectangle and centred in it. Any
// fetch or decode failure aborts the panel with fetch.ErrFetch. An empty
// list adds nothing.
func (d *Document) AddImagePanel(ctx context.Context, src ImageSource, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	if src == nil {
		return fmt.Errorf("%w: no image source configured", fetch.ErrFetch)
	}
	d.pdf.AddPage()
	d.pdf.SetFont(fontFamily, "B", 14)
	d.pdf.CellFormat(0, 12, MockupsHeading, "", 1, "C", false, 0, "")
	d.pdf.Ln(4)

	for i, url := range urls {
		data, err := src.Fetch(ctx, url)
		if err != nil {
			if !errors.Is(err, fetch.ErrFetch) {
				err = fmt.Errorf("%w: %s: %w", fetch.ErrFetch, url, err)
			}
			return fmt.Errorf("image %d of %d: %w", i+1, len(urls), err)
		}
		img, err := DecodeImage(data)
		if err != nil {
			return fmt.Errorf("image %d of %d: %w: %s: %w", i+1, len(urls), fetch.ErrFetch, url, err)
		}
		if i > 0 {
			d.pdf.AddPage()
		}
		p := d.placeImage(fmt.Sprintf("mockup-%d", i+1), img)
		log.Debug().Str("url", url).Str("format", img.Format).Int("width_px", img.Width).Int("height_px", img.Height).
			Float64("dpi", img.DPI).Float64("w_mm", p.W).Float64("h_mm", p.H).Msg("placed image")
		if err := d.err(); err != nil {
			return fmt.Errorf("image %d of %d: %w", i+1, len(urls), err)
		}
	}
	return nil
}

// imageArea is the rectangle below the current position, inside the image
// margins.
func (d *Document) imageArea() Rect {
	w, h := d.pdf.GetPageSize()
	top := d.pdf.GetY()
	if top < pageMargin {
		top = pageMargin
	}
	return Rect{X: pageMargin, Y: top, W: w - 2*pageMargin, H: h - top - pageMargin}
}

func (d *Document) placeImage(name string, img Image) Placement {
	area := d.imageArea()
	if area.H <= 0 {
		d.pdf.AddPage()
		area = d.imageArea()
	}
	p := Fit(area, img.WidthMM(), img.HeightMM())
	opts := gofpdf.ImageOptions{ImageType: "JPG"}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.JPEG))
	d.pdf.ImageOptions(name, p.X, p.Y, p.W, p.H, false, opts, 0, "")
	return p
}
