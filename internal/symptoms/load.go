package symptoms

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadFile reads a symptom database. Files ending in .json hold an object
// mapping condition to symptom text (a string or a list of strings); any
// other file is parsed as Markdown by ParseMarkdown.
func LoadFile(path string, opts ...Option) (Index, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return NewIndex(nil, opts...), err
	}
	var entries []Entry
	if strings.EqualFold(filepath.Ext(path), ".json") {
		entries, err = ParseJSON(b)
	} else {
		entries, err = ParseMarkdown(bytes.NewReader(b))
	}
	if err != nil {
		return NewIndex(nil, opts...), fmt.Errorf("symptoms %s: %w", path, err)
	}
	return NewIndex(entries, opts...), nil
}

// ParseJSON decodes {"condition": "symptoms"} or {"condition": ["s1", "s2"]}.
// Entries are returned sorted by condition.
func ParseJSON(b []byte) ([]Entry, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(raw))
	for cond, v := range raw {
		var text string
		if err := json.Unmarshal(v, &text); err != nil {
			var list []string
			if err2 := json.Unmarshal(v, &list); err2 != nil {
				return nil, fmt.Errorf("condition %q: symptoms must be a string or a list of strings", cond)
			}
			text = numbered(list)
		}
		out = append(out, Entry{Condition: cond, Symptoms: text})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Condition < out[j].Condition })
	return out, nil
}

// ParseMarkdown reads entries from Markdown. Three layouts are understood:
//
//   - a heading ("# Flu") followed by symptom lines until the next heading
//   - a table whose rows are "| condition | symptoms |" (header and separator rows are skipped)
//   - blank-line separated paragraphs whose first line names the condition
func ParseMarkdown(r io.Reader) ([]Entry, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		out         []Entry
		cond        string
		body        []string
		fromHeading bool
		inTable     bool
	)
	flush := func() {
		if cond != "" {
			out = append(out, Entry{Condition: cond, Symptoms: strings.Join(body, " ")})
		}
		cond, body, fromHeading = "", nil, false
	}

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			inTable = false
			// A heading keeps collecting across the blank line that follows it.
			if !fromHeading || len(body) > 0 {
				flush()
			}
		case strings.HasPrefix(line, "#"):
			flush()
			inTable = false
			cond = strings.TrimSpace(strings.TrimLeft(line, "#"))
			fromHeading = true
		case strings.HasPrefix(line, "|") && strings.HasSuffix(line, "|"):
			flush()
			cells := tableCells(line)
			if cells == nil {
				continue // separator row
			}
			if !inTable {
				inTable = true // header row
				continue
			}
			if len(cells) >= 2 {
				out = append(out, Entry{Condition: cells[0], Symptoms: strings.Join(cells[1:], " ")})
			}
		default:
			inTable = false
			if cond == "" {
				cond = strings.TrimSuffix(line, ":")
				continue
			}
			body = append(body, strings.TrimLeft(line, "-*• "))
		}
	}
	flush()
	return out, sc.Err()
}

// tableCells returns the non-empty cells of a table row, or nil for a
// separator row such as |---|:--:|.
func tableCells(line string) []string {
	cols := strings.Split(strings.Trim(line, "|"), "|")
	var cells []string
	sep := true
	for _, c := range cols {
		cell := strings.TrimSpace(c)
		if strings.Trim(cell, ":- ") != "" {
			sep = false
		}
		if cell != "" {
			cells = append(cells, cell)
		}
	}
	if sep {
		return nil
	}
	return cells
}

func numbered(list []string) string {
	var b strings.Builder
	for i, s := range list {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, strings.TrimSpace(s))
	}
	return b.String()
}

// Reference serializes results as the JSON object the follow-up prompt
// expects: {"condition": "symptoms", ...}. No results yield "{}".
func Reference(results []Result) string {
	m := make(map[string]string, len(results))
	for _, r := range results {
		m[r.Entry.Condition] = r.Entry.Symptoms
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}
