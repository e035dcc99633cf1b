// Package render lays out a classified recommendation and its mock-up images
// as an A4 PDF.
package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog/log"

	"github.com/nexovate/fypadvisor/internal/classify"
	"github.com/nexovate/fypadvisor/internal/textnorm"
)

var (
	// ErrRender marks a failure to build or write the document.
	ErrRender = errors.New("render error")
	// ErrCleanup marks a temporary resource that could not be released.
	// It is only ever logged.
	ErrCleanup = errors.New("cleanup warning")
)

// Defaults for the running header and footer.
const (
	DefaultTitle     = "FYP Project Advisor - Recommendations"
	DefaultCopyright = "Copyright (c) Nexovate. All rights reserved."
)

const (
	fontFamily = "Arial"
	// pageMargin is the bottom auto-break margin and the image margin.
	pageMargin = 15.0
)

// Style is the typography of one role.
type Style struct {
	Weight     string // "" or "B"
	Size       float64
	Before     float64 // vertical space before the line
	LineHeight float64
	After      float64 // vertical space after the line
	// Wrap renders the text as a wrapped block. When false the text is a
	// single cell unless it would overflow the usable width.
	Wrap bool
}

var styles = map[classify.Role]Style{
	classify.RoleTitle:          {Weight: "B", Size: 15, Before: 5, LineHeight: 10, After: 2, Wrap: true},
	classify.RoleSectionHeading: {Weight: "B", Size: 14, Before: 4, LineHeight: 10},
	classify.RoleSubHeading:     {Weight: "B", Size: 13, Before: 3, LineHeight: 9},
	classify.RoleHeading:        {Weight: "B", Size: 13, Before: 4, LineHeight: 10},
	classify.RoleBullet:         {Size: 12, LineHeight: 7, After: 1, Wrap: true},
	classify.RoleBody:           {Size: 11, LineHeight: 7, After: 1, Wrap: true},
}

// StyleFor returns the typography for role.
func StyleFor(role classify.Role) Style {
	if s, ok := styles[role]; ok {
		return s
	}
	return styles[classify.RoleBody]
}

// Options configures document chrome and metadata.
type Options struct {
	// Title is the running header on every page.
	Title string
	// Copyright is printed at the left of every footer.
	Copyright string
	Author    string
	Creator   string
	// CreatedAt pins the metadata timestamp when set.
	CreatedAt time.Time
}

// Document is an A4 portrait PDF under construction. Lines are appended in
// a single pass; nothing already written is revisited.
type Document struct {
	pdf        *gofpdf.Fpdf
	title      string
	copyright  string
	classifier classify.Classifier
}

// New opens a document with its first page already started.
func New(opts Options) *Document {
	d := &Document{
		pdf:       gofpdf.New("P", "mm", "A4", ""),
		title:     textnorm.Normalize(strings.TrimSpace(opts.Title)),
		copyright: textnorm.Normalize(strings.TrimSpace(opts.Copyright)),
	}
	if d.title == "" {
		d.title = DefaultTitle
	}
	if d.copyright == "" {
		d.copyright = DefaultCopyright
	}
	d.pdf.SetTitle(d.title, false)
	if opts.Author != "" {
		d.pdf.SetAuthor(textnorm.Normalize(opts.Author), false)
	}
	if opts.Creator != "" {
		d.pdf.SetCreator(textnorm.Normalize(opts.Creator), false)
	}
	if !opts.CreatedAt.IsZero() {
		d.pdf.SetCreationDate(opts.CreatedAt)
	}
	d.pdf.SetAutoPageBreak(true, pageMargin)
	d.pdf.SetHeaderFunc(d.header)
	d.pdf.SetFooterFunc(d.footer)
	d.pdf.AddPage()
	return d
}

func (d *Document) header() {
	d.pdf.SetFont(fontFamily, "B", 16)
	d.pdf.CellFormat(0, 10, d.title, "", 1, "C", false, 0, "")
	d.pdf.Ln(5)
}

func (d *Document) footer() {
	left, _, _, _ := d.pdf.GetMargins()
	d.pdf.SetY(-15)
	d.pdf.SetFont(fontFamily, "I", 10)
	d.pdf.CellFormat(0, 10, d.copyright, "", 0, "L", false, 0, "")
	d.pdf.SetX(left)
	d.pdf.CellFormat(0, 10, "Page "+strconv.Itoa(d.pdf.PageNo()), "", 0, "R", false, 0, "")
}

// Pages reports how many pages have been started.
func (d *Document) Pages() int { return d.pdf.PageNo() }

func (d *Document) usableWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	left, _, right, _ := d.pdf.GetMargins()
	return w - left - right
}

// WriteText normalizes text, classifies each non-empty line and renders it.
// Text with no recognizable structure renders as body paragraphs.
func (d *Document) WriteText(text string) error {
	for _, raw := range strings.Split(textnorm.Normalize(text), "\n") {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		d.WriteLine(d.classifier.Classify(s))
	}
	return d.err()
}

// WriteLine renders one classified line in its role's style.
func (d *Document) WriteLine(l classify.Line) {
	st := StyleFor(l.Role)
	d.pdf.SetFont(fontFamily, st.Weight, st.Size)
	if st.Before > 0 {
		d.pdf.Ln(st.Before)
	}
	if st.Wrap || d.pdf.GetStringWidth(l.Text) > d.usableWidth() {
		d.pdf.MultiCell(0, st.LineHeight, l.Text, "", "L", false)
	} else {
		d.pdf.CellFormat(0, st.LineHeight, l.Text, "", 1, "L", false, 0, "")
	}
	if st.After > 0 {
		d.pdf.Ln(st.After)
	}
	log.Debug().Str("role", l.Role.String()).Int("page", d.pdf.PageNo()).Msg("rendered line")
}

func (d *Document) err() error {
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

// Output closes the document and writes it to w.
func (d *Document) Output(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

// removeFile is swapped in tests to simulate a locked temporary file.
var removeFile = os.Remove

// Save writes the document to path through a temporary sibling file that is
// renamed into place, so a failed run never leaves a truncated PDF behind.
// A temp file that cannot be removed is logged as ErrCleanup.
func (d *Document) Save(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", ErrRender, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if committed {
			return
		}
		if rerr := removeFile(tmpPath); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			log.Warn().Err(fmt.Errorf("%w: %s: %w", ErrCleanup, tmpPath, rerr)).Msg("temporary file left behind")
		}
	}()

	if err := d.Output(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		log.Debug().Err(err).Str("path", tmpPath).Msg("could not relax output permissions")
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrRender, tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrRender, path, err)
	}
	committed = true
	return nil
}
