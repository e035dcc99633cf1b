package render

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxEmbedPixels bounds the longest side of the bitmap embedded in the PDF.
// Larger images are resampled; their printed size still follows the source
// dimensions and density.
const MaxEmbedPixels = 2400

// jpegQuality matches the re-encoding quality used for mock-ups.
const jpegQuality = 90

// Image is a decoded picture converted to opaque RGB and re-encoded as JPEG.
type Image struct {
	// JPEG holds the bytes handed to the PDF writer.
	JPEG []byte
	// Width and Height are the intrinsic pixel dimensions of the source.
	Width, Height int
	// DPI is the horizontal density from the source metadata, or DefaultDPI.
	DPI float64
	// Format is the decoder that recognised the source ("png", "webp", ...).
	Format string
}

// WidthMM is the intrinsic printed width.
func (im Image) WidthMM() float64 { return PixelsToMM(im.Width, im.DPI) }

// HeightMM is the intrinsic printed height.
func (im Image) HeightMM() float64 { return PixelsToMM(im.Height, im.DPI) }

// DecodeImage decodes PNG, JPEG, GIF, WebP, BMP or TIFF bytes, flattens any
// transparency onto white and re-encodes the result as JPEG in memory.
func DecodeImage(data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, errors.New("empty image data")
	}
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("decode image: %w", err)
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return Image{}, errors.New("image has no pixels")
	}

	dst := image.NewRGBA(embedBounds(b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if dst.Bounds().Size() == b.Size() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, fmt.Errorf("encode jpeg: %w", err)
	}
	dpi := sniffDPI(data)
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return Image{JPEG: buf.Bytes(), Width: b.Dx(), Height: b.Dy(), DPI: dpi, Format: format}, nil
}

func embedBounds(w, h int) image.Rectangle {
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= MaxEmbedPixels {
		return image.Rect(0, 0, w, h)
	}
	scale := float64(MaxEmbedPixels) / float64(longest)
	nw, nh := int(float64(w)*scale+0.5), int(float64(h)*scale+0.5)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return image.Rect(0, 0, nw, nh)
}

// sniffDPI reads the horizontal density from a JPEG JFIF header or a PNG
// pHYs chunk. It returns 0 when the data carries no usable density.
func sniffDPI(data []byte) float64 {
	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8}):
		return jfifDPI(data)
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return pngDPI(data)
	}
	return 0
}

func jfifDPI(data []byte) float64 {
	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			return 0
		}
		marker := data[pos+1]
		if marker == 0xD8 || (marker >= 0xD0 && marker <= 0xD7) || marker == 0x01 || marker == 0xFF {
			pos += 2
			continue
		}
		if marker == 0xDA || marker == 0xD9 {
			return 0
		}
		length := int(binary.BigEndian.Uint16(data[pos+2 : pos+4]))
		seg := pos + 4
		end := pos + 2 + length
		if length < 2 || end > len(data) {
			return 0
		}
		// APP0: "JFIF\0", version(2), units(1), Xdensity(2), Ydensity(2)
		if marker == 0xE0 && end-seg >= 12 && bytes.Equal(data[seg:seg+5], []byte("JFIF\x00")) {
			units := data[seg+7]
			x := float64(binary.BigEndian.Uint16(data[seg+8 : seg+10]))
			switch units {
			case 1:
				return x
			case 2:
				return x * 2.54
			}
			return 0
		}
		pos = end
	}
	return 0
}

func pngDPI(data []byte) float64 {
	pos := 8
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		typ := string(data[pos+4 : pos+8])
		body := pos + 8
		if length < 0 || body+length+4 > len(data) {
			return 0
		}
		switch typ {
		case "pHYs":
			if length < 9 {
				return 0
			}
			ppu := float64(binary.BigEndian.Uint32(data[body : body+4]))
			if data[body+8] == 1 { // metre
				return ppu * 0.0254
			}
			return 0
		case "IDAT", "IEND":
			return 0
		}
		pos = body + length + 4
	}
	return 0
}
