package vector

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"

	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

const markupSource = "svg"

type attribute struct {
	name  string
	value string
	quote byte
	// raw holds the original bytes; nil once the attribute has been changed.
	raw []byte
}

// element is a start tag buffered until its closing '>' so that attributes can be edited.
type element struct {
	name  string
	depth int
	attrs []attribute
}

func (e *element) isSVG() bool {
	return strings.EqualFold(localName(e.name), "svg")
}

func (e *element) get(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

func (e *element) set(name, value string) {
	for i := range e.attrs {
		if e.attrs[i].name == name {
			e.attrs[i].value = value
			e.attrs[i].raw = nil
			return
		}
	}
	e.attrs = append(e.attrs, attribute{name: name, value: value, quote: '"'})
}

func (e *element) remove(name string) {
	kept := e.attrs[:0]
	for _, a := range e.attrs {
		if a.name != name {
			kept = append(kept, a)
		}
	}
	e.attrs = kept
}

func (e *element) writeAttrs(buf *bytes.Buffer) {
	for _, a := range e.attrs {
		if a.raw != nil {
			if len(a.raw) > 0 && !isSpace(a.raw[0]) {
				buf.WriteByte(' ')
			}
			buf.Write(a.raw)
			continue
		}
		quote := a.quote
		if quote == 0 {
			quote = '"'
		}
		buf.WriteByte(' ')
		buf.WriteString(a.name)
		buf.WriteByte('=')
		buf.WriteByte(quote)
		buf.WriteString(escapeAttr(a.value, quote))
		buf.WriteByte(quote)
	}
}

// rewrite streams markup through the XML lexer and lets edit change the attributes of each start
// tag. Everything else is emitted as read. The document must contain an <svg> element and every
// tag must be balanced; otherwise the original markup is returned with a ParseError.
func rewrite(markup string, edit func(*element)) (string, error) {
	lexer := xml.NewLexer(parse.NewInputString(markup))

	var (
		out     bytes.Buffer
		stack   []string
		current *element
		inPI    bool
		sawSVG  bool
	)
	out.Grow(len(markup))

	fail := func(format string, args ...any) (string, error) {
		line := 1 + bytes.Count(out.Bytes(), []byte{'\n'})
		return markup, apperrors.NewParseError(markupSource, line, fmt.Errorf(format, args...))
	}

	for {
		tt, data := lexer.Next()
		switch tt {
		case xml.ErrorToken:
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return fail("%v", err)
			}
			if len(stack) > 0 {
				return fail("unclosed element <%s>", stack[len(stack)-1])
			}
			if !sawSVG {
				return fail("no <svg> element found")
			}
			return out.String(), nil

		case xml.StartTagPIToken:
			inPI = true
			out.Write(data)

		case xml.StartTagClosePIToken:
			inPI = false
			out.Write(data)

		case xml.StartTagToken:
			current = &element{name: string(lexer.Text()), depth: len(stack)}
			out.Write(data)

		case xml.AttributeToken:
			if inPI || current == nil {
				if len(data) > 0 && !isSpace(data[0]) {
					out.WriteByte(' ')
				}
				out.Write(data)
				continue
			}
			current.attrs = append(current.attrs, parseAttribute(lexer.Text(), lexer.AttrVal(), data))

		case xml.StartTagCloseToken, xml.StartTagCloseVoidToken:
			if current == nil {
				return fail("unexpected %q", data)
			}
			if current.isSVG() {
				sawSVG = true
			}
			edit(current)
			current.writeAttrs(&out)
			out.Write(data)
			if tt == xml.StartTagCloseToken {
				stack = append(stack, current.name)
			}
			current = nil

		case xml.EndTagToken:
			name := string(lexer.Text())
			if len(stack) == 0 || stack[len(stack)-1] != name {
				return fail("unexpected closing tag </%s>", name)
			}
			stack = stack[:len(stack)-1]
			out.Write(data)

		default:
			out.Write(data)
		}
	}
}

func parseAttribute(name, val, raw []byte) attribute {
	a := attribute{name: string(name), raw: append([]byte(nil), raw...)}
	if len(val) >= 2 && (val[0] == '"' || val[0] == '\'') && val[len(val)-1] == val[0] {
		a.quote = val[0]
		a.value = string(val[1 : len(val)-1])
	} else {
		a.value = string(val)
	}
	return a
}

func localName(name string) string {
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func escapeAttr(value string, quote byte) string {
	value = strings.ReplaceAll(value, "&", "&amp;")
	value = strings.ReplaceAll(value, "<", "&lt;")
	if quote == '\'' {
		return strings.ReplaceAll(value, "'", "&apos;")
	}
	return strings.ReplaceAll(value, `"`, "&quot;")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
