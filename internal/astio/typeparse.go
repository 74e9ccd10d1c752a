package astio

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"ferrite/internal/ast"
	"ferrite/internal/source"
)

// parseType reads the surface syntax of a type:
//
//	type := "*" type | "_" | name [ "<" type { "," type } ">" ]
func parseType(text string, sp source.Span) (*ast.Type, error) {
	p := &typeParser{src: norm.NFC.String(strings.TrimSpace(text)), span: sp}
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("type %q: unexpected %q", text, p.src[p.pos:])
	}
	return t, nil
}

type typeParser struct {
	src  string
	pos  int
	span source.Span
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) parse() (*ast.Type, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("type %q: unexpected end", p.src)
	}
	switch p.src[p.pos] {
	case '*':
		p.pos++
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		return &ast.Type{Kind: ast.TypePtr, Elem: elem, Span: p.span}, nil
	case '_':
		if p.pos+1 == len(p.src) || !isIdentRune(rune(p.src[p.pos+1])) {
			p.pos++
			return &ast.Type{Kind: ast.TypeInfer, Span: p.span}, nil
		}
	}
	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("type %q: expected a name at offset %d", p.src, p.pos)
	}
	t := &ast.Type{Kind: ast.TypeRef, Name: name, Span: p.span}
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '<' {
		p.pos++
		t.Args = []*ast.Type{}
		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == '>' {
			p.pos++
			return t, nil
		}
		for {
			arg, err := p.parse()
			if err != nil {
				return nil, err
			}
			t.Args = append(t.Args, arg)
			p.skipSpace()
			if p.pos >= len(p.src) {
				return nil, fmt.Errorf("type %q: unclosed '<'", p.src)
			}
			c := p.src[p.pos]
			p.pos++
			if c == '>' {
				break
			}
			if c != ',' {
				return nil, fmt.Errorf("type %q: unexpected %q in generic arguments", p.src, c)
			}
		}
	}
	return t, nil
}

func (p *typeParser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		r, size := rune(p.src[p.pos]), 1
		if r >= 0x80 {
			r, size = utf8.DecodeRuneInString(p.src[p.pos:])
		}
		if !isIdentRune(r) {
			break
		}
		p.pos += size
	}
	return p.src[start:p.pos]
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

