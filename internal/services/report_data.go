package services

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AnswerTimeLayout formats answer timestamps inside report values.
const AnswerTimeLayout = "2006-01-02 15:04:05"

// ReportEntry is one question text and its answers in order; answer i is
// published under key "A<i+1>".
type ReportEntry struct {
	Question string
	Answers  []string
}

// ReportData is an insertion-ordered mapping from question text to answers.
// It marshals to {"<question>": {"A1": "<time>, <text>", ...}, ...}.
type ReportData struct {
	entries []ReportEntry
	index   map[string]int
}

// merge adds answers under question. A question text already present keeps
// its position; its A1.. values are overwritten by the new row's answers,
// and answers beyond the new row's count survive.
func (d *ReportData) merge(question string, answers []string) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	i, ok := d.index[question]
	if !ok {
		d.index[question] = len(d.entries)
		d.entries = append(d.entries, ReportEntry{Question: question, Answers: append([]string(nil), answers...)})
		return
	}
	cur := d.entries[i].Answers
	for j, a := range answers {
		if j < len(cur) {
			cur[j] = a
		} else {
			cur = append(cur, a)
		}
	}
	d.entries[i].Answers = cur
}

// Entries returns the entries in insertion order.
func (d *ReportData) Entries() []ReportEntry { return d.entries }

// Len returns the number of distinct question texts.
func (d *ReportData) Len() int { return len(d.entries) }

// Answers returns the answers stored for question.
func (d *ReportData) Answers(question string) ([]string, bool) {
	i, ok := d.index[question]
	if !ok {
		return nil, false
	}
	return d.entries[i].Answers, true
}

// MarshalJSON keeps insertion order.
func (d *ReportData) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range d.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, e.Question); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, a := range e.Answers {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, fmt.Sprintf("A%d", j+1)); err != nil {
				return nil, err
			}
			if err := writeString(&buf, a); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// TimelineItem is the first answer given to one question on a day. Answer
// is empty when the question was never answered.
type TimelineItem struct {
	Question string
	Answer   string
}

// TimelineDay groups a day's answered questions.
type TimelineDay struct {
	Date  string
	Items []TimelineItem
}

// Timeline is an ordered date -> {question -> first answer} mapping. Days
// with questions but no answers appear as empty objects.
type Timeline struct {
	Days []TimelineDay
}

// add records question/answer on date; a repeated question text on the same
// date keeps its position and takes the new answer.
func (t *Timeline) add(date, question, answer string, answered bool) {
	n := len(t.Days)
	if n == 0 || t.Days[n-1].Date != date {
		t.Days = append(t.Days, TimelineDay{Date: date, Items: []TimelineItem{}})
		n++
	}
	day := &t.Days[n-1]
	if !answered {
		return
	}
	for i := range day.Items {
		if day.Items[i].Question == question {
			day.Items[i].Answer = answer
			return
		}
	}
	day.Items = append(day.Items, TimelineItem{Question: question, Answer: answer})
}

// MarshalJSON keeps date and question order.
func (t *Timeline) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range t.Days {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, d.Date); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, it := range d.Items {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, it.Question); err != nil {
				return nil, err
			}
			if err := writeString(&buf, it.Answer); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Indent renders the timeline as indented JSON for prompts.
func (t *Timeline) Indent() (string, error) {
	raw, err := t.MarshalJSON()
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return "", err
	}
	return out.String(), nil
}

func writeKey(buf *bytes.Buffer, k string) error {
	if err := writeString(buf, k); err != nil {
		return err
	}
	buf.WriteByte(':')
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
