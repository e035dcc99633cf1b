package advisor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Questions is the canonical questionnaire in the order prompts list it.
var Questions = []string{
	"App Type (Web, Mobile, Hybrid)",
	"Core Features (Authentication, Payments, API integrations, Chat, etc.)",
	"Tech Preferences (React, Node.js, Flutter, etc.)",
	"Database (SQL, NoSQL)",
	"Budget ($10K, $15K, $18K, $20K, $25K)",
	"Timeline (3 months, 4 months, 5 months, 6 months)",
	"Industry (E-commerce, Social Media, FinTech, etc.)",
	"Project Complexity (Medium, High)",
	"User Base (Small, Medium, Large)",
	"Maintenance Plan (Basic, Full, Premium Support)",
	"Project Category (Infrastructure, Security, AI, Website Development)",
}

// Answer is one question with the user's free-form reply.
type Answer struct {
	Question string
	Answer   string
}

// Answers is an ordered question→answer mapping. Decoding from a JSON
// object keeps the document order; a repeated key keeps its first position
// and its last value.
type Answers []Answer

// Get returns the answer for question.
func (a Answers) Get(question string) (string, bool) {
	for _, qa := range a {
		if qa.Question == question {
			return qa.Answer, true
		}
	}
	return "", false
}

// Ordered returns the answers with canonical questions first, in
// questionnaire order, followed by any other questions in their original
// order.
func (a Answers) Ordered() Answers {
	out := make(Answers, 0, len(a))
	used := make(map[int]bool, len(a))
	for _, q := range Questions {
		for i, qa := range a {
			if !used[i] && qa.Question == q {
				out = append(out, qa)
				used[i] = true
				break
			}
		}
	}
	for i, qa := range a {
		if !used[i] {
			out = append(out, qa)
		}
	}
	return out
}

// UnmarshalJSON decodes a JSON object of string values, preserving order.
func (a *Answers) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("answers must be a JSON object")
	}
	out := Answers{}
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("answer for %q: %w", key, err)
		}
		val, err := answerValue(raw)
		if err != nil {
			return fmt.Errorf("answer for %q: %w", key, err)
		}
		if i, seen := index[key]; seen {
			out[i].Answer = val
			continue
		}
		index[key] = len(out)
		out = append(out, Answer{Question: key, Answer: val})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = out
	return nil
}

// answerValue accepts strings, and renders numbers, booleans, null and
// string lists the way a questionnaire front end would send them.
func answerValue(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ", "), nil
	}
	trimmed := strings.TrimSpace(string(raw))
	switch {
	case trimmed == "null":
		return "", nil
	case trimmed == "true" || trimmed == "false":
		return trimmed, nil
	case len(trimmed) > 0 && (trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9')):
		return trimmed, nil
	}
	return "", errors.New("answer must be a string")
}

// MarshalJSON encodes the answers as a JSON object in order.
func (a Answers) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, qa := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(qa.Question)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(qa.Answer)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
