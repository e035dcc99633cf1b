package advisor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Console runs the interactive questionnaire and the review loop over one
// line-oriented reader, so answers typed ahead are not lost between steps.
type Console struct {
	sc *bufio.Scanner
	w  io.Writer
}

func NewConsole(r io.Reader, w io.Writer) *Console {
	return &Console{sc: bufio.NewScanner(r), w: w}
}

func (c *Console) readLine() (string, error) {
	if c.sc.Scan() {
		return strings.TrimSpace(c.sc.Text()), nil
	}
	if err := c.sc.Err(); err != nil {
		return "", err
	}
	return "", io.ErrUnexpectedEOF
}

// Collect asks every canonical question on w and reads one line per answer
// from r, followed by an optional free-form note.
func Collect(r io.Reader, w io.Writer) (Answers, string, error) {
	return NewConsole(r, w).Collect()
}

// Collect asks every canonical question and reads one answer line for each,
// then an optional note. Running out of input before the note is an error.
func (c *Console) Collect() (Answers, string, error) {
	answers := make(Answers, 0, len(Questions))
	for _, q := range Questions {
		fmt.Fprintf(c.w, "\n%s\nYour Answer: ", q)
		ans, err := c.readLine()
		if err != nil {
			return nil, "", fmt.Errorf("read answer for %q: %w", q, err)
		}
		answers = append(answers, Answer{Question: q, Answer: ans})
	}
	fmt.Fprint(c.w, "\nAnything else you'd like us to know about your project idea? (Optional)\nYour Note: ")
	notes, err := c.readLine()
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, "", fmt.Errorf("read note: %w", err)
	}
	return answers, notes, nil
}

// Review shows text and offers to regenerate it with one more requirement
// until the user declines. Each regeneration uses the original notes plus
// the latest requirement only. End of input counts as declining.
func (c *Console) Review(ctx context.Context, adv *Advisor, answers Answers, notes, text string) (string, error) {
	fmt.Fprintf(c.w, "\nRecommendation:\n\n%s\n", text)
	for {
		fmt.Fprint(c.w, "\nDo you want to add any missing requirement?\n1. Yes\n2. No\nChoice: ")
		choice, err := c.readLine()
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return text, nil
		}
		if err != nil {
			return "", fmt.Errorf("read choice: %w", err)
		}
		switch choice {
		case "1":
			fmt.Fprint(c.w, "Enter the additional requirement: ")
			req, err := c.readLine()
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return text, nil
			}
			if err != nil {
				return "", fmt.Errorf("read requirement: %w", err)
			}
			if req == "" {
				fmt.Fprintln(c.w, "Requirement is empty.")
				continue
			}
			text, err = adv.Generate(ctx, answers, strings.TrimSpace(notes+" "+req))
			if err != nil {
				return "", err
			}
			fmt.Fprintf(c.w, "\nAltered Recommendation:\n\n%s\n", text)
		case "2":
			return text, nil
		default:
			fmt.Fprintln(c.w, "Invalid choice. Please type 1 or 2.")
		}
	}
}
