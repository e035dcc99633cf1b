// Package classify assigns a display role to each line of a generated
// recommendation. Rules are tried in a fixed order and the first match wins.
package classify

import (
	"regexp"
	"strconv"
	"strings"
)

// Role is the display role of a single line.
type Role int

const (
	RoleBody Role = iota
	RoleTitle
	RoleSectionHeading
	RoleSubHeading
	// RoleHeading is the heading variant produced by lines wrapped in '#'.
	RoleHeading
	RoleBullet
)

func (r Role) String() string {
	switch r {
	case RoleTitle:
		return "title"
	case RoleSectionHeading:
		return "section-heading"
	case RoleSubHeading:
		return "sub-heading"
	case RoleHeading:
		return "heading"
	case RoleBullet:
		return "bullet"
	default:
		return "body"
	}
}

// Line is a classified, non-empty line of text.
type Line struct {
	// Raw is the trimmed input line.
	Raw string
	// Text is what gets printed, decoration removed.
	Text string
	Role Role
	// Index is the bullet number for RoleBullet and zero otherwise.
	Index int
}

const titlePrefix = "final year project recommendation:"

var (
	sectionRe  = regexp.MustCompile(`^[A-Z][\w\s\-()]+:$`)
	boldLineRe = regexp.MustCompile(`^\*\*.+\*\*$`)
	hashLineRe = regexp.MustCompile(`^#+\s*.+\s*#+$`)

	hashStarRe = regexp.MustCompile(`[#*]+`)
	starRe     = regexp.MustCompile(`[*]+`)
	hashPlusRe = regexp.MustCompile(`[#+]`)
	markerRe   = regexp.MustCompile(`\*+|(^|\s)#+`)
)

type rule struct {
	role    Role
	match   func(line string) bool
	display func(line string) string
}

// rules is the precedence order. Keep it the single source of truth; tests
// pin the order through Classify.
var rules = []rule{
	{
		role:    RoleTitle,
		match:   func(s string) bool { return strings.HasPrefix(strings.ToLower(s), titlePrefix) },
		display: stripWith(hashStarRe),
	},
	{role: RoleSectionHeading, match: sectionRe.MatchString, display: stripWith(hashStarRe)},
	{role: RoleSubHeading, match: boldLineRe.MatchString, display: stripWith(starRe)},
	{
		role:    RoleBullet,
		match:   func(s string) bool { return strings.HasPrefix(s, "*") },
		display: stripWith(starRe),
	},
	{role: RoleHeading, match: hashLineRe.MatchString, display: stripWith(hashPlusRe)},
	{role: RoleBody, match: func(string) bool { return true }, display: stripMarkers},
}

func stripWith(re *regexp.Regexp) func(string) string {
	return func(s string) string {
		return strings.TrimSpace(re.ReplaceAllString(s, ""))
	}
}

// stripMarkers removes asterisk runs and hash runs that open a word. A hash
// inside a word, as in "C#", is content.
func stripMarkers(s string) string {
	return strings.TrimSpace(markerRe.ReplaceAllString(s, "$1"))
}

// Classifier carries the running bullet counter. The zero value is ready to
// use and numbers the first bullet 1.
type Classifier struct {
	next int
}

// Reset restarts bullet numbering at 1.
func (c *Classifier) Reset() { c.next = 1 }

// NextBullet reports the number the next bullet line will receive.
func (c *Classifier) NextBullet() int {
	if c.next < 1 {
		return 1
	}
	return c.next
}

// Classify tags one trimmed, non-empty line. Section headings reset the
// bullet counter; bullets consume it.
func (c *Classifier) Classify(line string) Line {
	line = strings.TrimSpace(line)
	for _, r := range rules {
		if !r.match(line) {
			continue
		}
		out := Line{Raw: line, Text: r.display(line), Role: r.role}
		switch r.role {
		case RoleSectionHeading:
			c.Reset()
		case RoleBullet:
			out.Index = c.NextBullet()
			out.Text = strconv.Itoa(out.Index) + ". " + out.Text
			c.next = out.Index + 1
		}
		return out
	}
	// unreachable: the body rule matches everything
	return Line{Raw: line, Text: line, Role: RoleBody}
}

// ClassifyText splits text into lines, skips blank ones and classifies the
// rest with a fresh counter.
func ClassifyText(text string) []Line {
	var c Classifier
	var out []Line
	for _, raw := range strings.Split(text, "\n") {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		out = append(out, c.Classify(s))
	}
	return out
}
