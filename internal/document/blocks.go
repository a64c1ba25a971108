// Package document turns the narrative text returned by the language model
// into typed blocks and typesets them as a PDF.
//
// The narrative is loose Markdown. ParseBlocks lets goldmark find block
// boundaries (blank lines, headings, lists, code) and then applies the house
// rules on top: a paragraph whose first line is bold only ("**Overview**")
// becomes a heading followed by body text, and a standalone bold line at the
// very top becomes the title.
package document

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Kind classifies a block.
type Kind int

const (
	Body Kind = iota
	Heading
	Title
)

func (k Kind) String() string {
	switch k {
	case Title:
		return "title"
	case Heading:
		return "heading"
	default:
		return "body"
	}
}

// Block is one typeset unit. Text is plain: inline markup is removed and
// line breaks inside a paragraph are kept as "\n".
type Block struct {
	Kind Kind
	Text string
}

var boldLineRE = regexp.MustCompile(`^\*\*([^*]+)\*\*:?$`)

var md = goldmark.New()

// ParseBlocks splits narrative into blocks in reading order. Blank input
// yields no blocks.
func ParseBlocks(narrative string) []Block {
	src := []byte(strings.ReplaceAll(narrative, "\r\n", "\n"))
	if len(strings.TrimSpace(string(src))) == 0 {
		return nil
	}
	doc := md.Parser().Parse(text.NewReader(src))
	c := &collector{src: src}
	c.walk(doc)
	return c.blocks
}

type collector struct {
	src    []byte
	blocks []Block
}

func (c *collector) add(k Kind, s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	c.blocks = append(c.blocks, Block{Kind: k, Text: s})
}

func (c *collector) walk(parent ast.Node) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch v := n.(type) {
		case *ast.Heading:
			k := Heading
			if v.Level == 1 {
				k = Title
			}
			c.add(k, c.inline(v))
		case *ast.Paragraph:
			c.paragraph(v)
		case *ast.TextBlock:
			c.add(Body, c.inline(v))
		case *ast.List:
			c.list(v)
		case *ast.Blockquote:
			c.walk(v)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			c.add(Body, c.raw(v))
		}
	}
}

func (c *collector) paragraph(p *ast.Paragraph) {
	lines := p.Lines()
	if lines.Len() == 0 {
		return
	}
	seg := lines.At(0)
	first := strings.TrimSpace(string(seg.Value(c.src)))
	m := boldLineRE.FindStringSubmatch(first)
	if m == nil {
		c.add(Body, c.inline(p))
		return
	}
	label := strings.TrimSuffix(strings.TrimSpace(m[1]), ":")
	if lines.Len() == 1 {
		if len(c.blocks) == 0 {
			c.add(Title, label)
		} else {
			c.add(Heading, label)
		}
		return
	}
	c.add(Heading, label)
	rest := strings.TrimSpace(c.inline(p))
	rest = strings.TrimPrefix(rest, label)
	rest = strings.TrimPrefix(rest, ":")
	c.add(Body, rest)
}

func (c *collector) list(l *ast.List) {
	n := l.Start
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if l.IsOrdered() {
			marker = strconv.Itoa(n) + ". "
			n++
		}
		var parts []string
		var nested []ast.Node
		for b := item.FirstChild(); b != nil; b = b.NextSibling() {
			switch b.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				parts = append(parts, strings.TrimSpace(c.inline(b)))
			default:
				nested = append(nested, b)
			}
		}
		c.add(Body, marker+strings.Join(parts, "\n"))
		for _, b := range nested {
			if sub, ok := b.(*ast.List); ok {
				c.list(sub)
			}
		}
	}
}

// inline flattens a block's inline children to plain text.
func (c *collector) inline(n ast.Node) string {
	var b strings.Builder
	c.writeInline(&b, n)
	return b.String()
}

func (c *collector) writeInline(b *strings.Builder, n ast.Node) {
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		switch v := ch.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(c.src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.AutoLink:
			b.Write(v.URL(c.src))
		case *ast.RawHTML, *ast.Image:
		default:
			c.writeInline(b, ch)
		}
	}
}

func (c *collector) raw(n ast.Node) string {
	lines := n.Lines()
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.src))
	}
	return b.String()
}
