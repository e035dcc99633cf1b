package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nexovate/fypadvisor/internal/advisor"
	"github.com/nexovate/fypadvisor/internal/render"
)

// ErrInput marks a malformed or incomplete request. It is fatal for the run.
var ErrInput = errors.New("input error")

// DefaultImageLinks are the mock-ups appended when a request names none.
var DefaultImageLinks = []string{
	"https://i.postimg.cc/FHHzNfrZ/Desktop1.webp",
	"https://i.postimg.cc/dtTZgZ0T/Mob1.webp",
	"https://i.postimg.cc/vZ01Vrqk/Mob3.webp",
	"https://i.postimg.cc/j262dPn8/Mob2.webp",
	"https://i.postimg.cc/VvFscw2p/desktop3.webp",
	"https://i.postimg.cc/44vxcvnP/Desktop2.webp",
}

// Input is the request document.
type Input struct {
	Answers        advisor.Answers `json:"answers"`
	ExtraNotes     string          `json:"extraNotes,omitempty"`
	Recommendation string          `json:"recommendation,omitempty"`
	// ImageLinks is nil when the key is absent (defaults apply) and empty
	// when the request asks for no images.
	ImageLinks   []string `json:"imageLinks"`
	ProjectTitle string   `json:"projectTitle,omitempty"`
	UserID       UserID   `json:"userId,omitempty"`
}

// UserID accepts a JSON string or number.
type UserID string

func (u *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*u = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*u = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("userId must be a string or a number")
	}
	*u = UserID(n.String())
	return nil
}

// ParseInput decodes and validates a request document.
func ParseInput(data []byte) (Input, error) {
	var in Input
	if len(bytes.TrimSpace(data)) == 0 {
		return in, fmt.Errorf("%w: empty input document", ErrInput)
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return Input{}, fmt.Errorf("%w: parse input: %w", ErrInput, err)
	}
	if err := in.Validate(); err != nil {
		return Input{}, err
	}
	return in, nil
}

// LoadInput reads and parses the request at path.
func LoadInput(path string) (Input, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Input{}, fmt.Errorf("%w: read input: %w", ErrInput, err)
	}
	return ParseInput(b)
}

// Validate requires answers unless a finished recommendation is supplied.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Recommendation) == "" && len(in.Answers) == 0 {
		return fmt.Errorf("%w: answers are required when no recommendation is given", ErrInput)
	}
	for i, l := range in.ImageLinks {
		if strings.TrimSpace(l) == "" {
			return fmt.Errorf("%w: imageLinks[%d] is empty", ErrInput, i)
		}
	}
	return nil
}

// Links returns the image URLs to embed.
func (in Input) Links() []string {
	if in.ImageLinks == nil {
		return append([]string(nil), DefaultImageLinks...)
	}
	return in.ImageLinks
}

// Title returns the running header text.
func (in Input) Title() string {
	if t := strings.TrimSpace(in.ProjectTitle); t != "" {
		return t
	}
	return render.DefaultTitle
}
