package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// questionKeyRE is the only key shape accepted in a question map.
var questionKeyRE = regexp.MustCompile(`^Q[0-9]+$`)

// QuestionSet maps question identifiers ("Q1", "Q2", ...) to question text.
type QuestionSet map[string]string

// Item is one entry of an ordered question set.
type Item struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
	Text  string `json:"text"`
}

// Ordered returns the set sorted by the numeric suffix of each identifier,
// so Q2 precedes Q10. Identifiers without a numeric suffix sort last, by name.
// Order is zero-based.
func (s QuestionSet) Ordered() []Item {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ni, oki := idNumber(ids[i])
		nj, okj := idNumber(ids[j])
		switch {
		case oki && okj && ni != nj:
			return ni < nj
		case oki != okj:
			return oki
		default:
			return ids[i] < ids[j]
		}
	})
	out := make([]Item, len(ids))
	for i, id := range ids {
		out[i] = Item{ID: id, Order: i, Text: s[id]}
	}
	return out
}

// idNumber extracts the trailing decimal number of id ("Q12" -> 12).
func idNumber(id string) (int, bool) {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	if i == len(id) {
		return 0, false
	}
	n, err := strconv.Atoi(id[i:])
	return n, err == nil
}

// ParseQuestionSet parses a JSON object whose keys all match Q<n> and whose
// values are all strings. Any other key or value type rejects the whole
// response, as do two keys naming the same number (Q1 and Q01). An empty
// object is valid.
func ParseQuestionSet(raw string) (QuestionSet, error) {
	block, err := extractObject(raw, "question map")
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(block), &fields); err != nil {
		return nil, &ParseError{Shape: "question map", Reason: err.Error()}
	}

	out := make(QuestionSet, len(fields))
	seen := make(map[int]string, len(fields))
	for k, v := range fields {
		n, numeric := idNumber(k)
		if !questionKeyRE.MatchString(k) || !numeric {
			return nil, &ParseError{Shape: "question map", Reason: fmt.Sprintf("unexpected key %q", k)}
		}
		if prev, dup := seen[n]; dup {
			return nil, &ParseError{Shape: "question map", Reason: fmt.Sprintf("keys %q and %q name the same question", prev, k)}
		}
		seen[n] = k
		var text string
		if err := json.Unmarshal(v, &text); err != nil {
			return nil, &ParseError{Shape: "question map", Reason: fmt.Sprintf("value of %s is not a string", k)}
		}
		out[k] = strings.TrimSpace(text)
	}
	return out, nil
}

type followupEnvelope struct {
	Questions *[]followupItem `json:"questions"`
}

type followupItem struct {
	ID   *string `json:"id"`
	Text *string `json:"text"`
}

// ParseFollowupList parses {"questions":[{"id":..,"text":..}, ...]} into an
// id->text mapping. Later duplicates overwrite earlier ones. Unknown fields or
// missing id/text reject the response.
func ParseFollowupList(raw string) (QuestionSet, error) {
	block, err := extractObject(raw, "follow-up list")
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(block)))
	dec.DisallowUnknownFields()
	var env followupEnvelope
	if err := dec.Decode(&env); err != nil {
		return nil, &ParseError{Shape: "follow-up list", Reason: err.Error()}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Shape: "follow-up list", Reason: "trailing data after object"}
	}
	if env.Questions == nil {
		return nil, &ParseError{Shape: "follow-up list", Reason: `missing "questions"`}
	}

	out := make(QuestionSet, len(*env.Questions))
	for i, it := range *env.Questions {
		if it.ID == nil || it.Text == nil {
			return nil, &ParseError{Shape: "follow-up list", Reason: fmt.Sprintf("item %d lacks id or text", i)}
		}
		id := strings.TrimSpace(*it.ID)
		if id == "" {
			return nil, &ParseError{Shape: "follow-up list", Reason: fmt.Sprintf("item %d has an empty id", i)}
		}
		out[id] = strings.TrimSpace(*it.Text)
	}
	return out, nil
}

// extractObject strips markdown code fences and returns the first balanced
// {...} block of raw.
func extractObject(raw, shape string) (string, error) {
	block := firstObject(stripCodeFences(raw))
	if block == "" {
		return "", &ParseError{Shape: shape, Reason: "no JSON object found in response"}
	}
	return block, nil
}

// stripCodeFences drops ``` fence lines and keeps their contents.
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// firstObject returns the first balanced { ... } block, honoring strings and
// escapes, or "" when there is none.
func firstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
