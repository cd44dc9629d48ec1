// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plan

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/planir/pkg/sql/plan/tupledomain"
)

// ParseExpr parses a predicate written in the syntax produced by Expr.String:
//
//	expr       = disjunct { "OR" disjunct }
//	disjunct   = term { "AND" term }
//	term       = "(" expr ")" | "TRUE" | "FALSE" | symbol op literal
//	op         = "=" | "!=" | "<" | "<=" | ">" | ">="
//	literal    = [ "-" ] digits | "'" chars "'"
//
// Keywords are case-insensitive and cannot be used as symbols. Inside a string literal a quote is written
// as two quotes.
func ParseExpr(s string) (Expr, error) {
	p := parser{lex: lexer{in: s}}
	p.next()
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected %s", p.tok)
	}
	return e, nil
}

// MustParseExpr is like ParseExpr but panics on error. It is intended for
// tests and static predicates.
func MustParseExpr(s string) Expr {
	e, err := ParseExpr(s)
	if err != nil {
		panic(err)
	}
	return e
}

type tokKind uint8

const (
	tokEOF tokKind = iota
	tokIdent
	tokInt
	tokString
	tokOp
	tokLParen
	tokRParen
	tokError
)

type token struct {
	kind tokKind
	pos  int
	text string
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokString:
		return "'" + t.text + "'"
	}
	return strconv.Quote(t.text)
}

type lexer struct {
	in  string
	pos int
}

func (l *lexer) next() token {
	for l.pos < len(l.in) && unicode.IsSpace(rune(l.in[l.pos])) {
		l.pos++
	}
	start := l.pos
	if l.pos >= len(l.in) {
		return token{kind: tokEOF, pos: start}
	}
	c := l.in[l.pos]
	switch {
	case c == '(':
		l.pos++
		return token{kind: tokLParen, pos: start, text: "("}
	case c == ')':
		l.pos++
		return token{kind: tokRParen, pos: start, text: ")"}
	case c == '\'':
		var b strings.Builder
		l.pos++
		for {
			if l.pos >= len(l.in) {
				return token{kind: tokError, pos: start, text: "unterminated string literal"}
			}
			if l.in[l.pos] == '\'' {
				if l.pos+1 < len(l.in) && l.in[l.pos+1] == '\'' {
					b.WriteByte('\'')
					l.pos += 2
					continue
				}
				l.pos++
				return token{kind: tokString, pos: start, text: b.String()}
			}
			b.WriteByte(l.in[l.pos])
			l.pos++
		}
	case c == '-' || isDigit(c):
		l.pos++
		for l.pos < len(l.in) && isDigit(l.in[l.pos]) {
			l.pos++
		}
		return token{kind: tokInt, pos: start, text: l.in[start:l.pos]}
	case strings.IndexByte("=!<>", c) >= 0:
		l.pos++
		if l.pos < len(l.in) && l.in[l.pos] == '=' {
			l.pos++
		}
		return token{kind: tokOp, pos: start, text: l.in[start:l.pos]}
	case isIdentChar(c):
		for l.pos < len(l.in) && isIdentChar(l.in[l.pos]) {
			l.pos++
		}
		return token{kind: tokIdent, pos: start, text: l.in[start:l.pos]}
	}
	l.pos++
	return token{kind: tokError, pos: start, text: "unexpected character " + strconv.QuoteRune(rune(c))}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentChar(c byte) bool {
	return c == '_' || c == '.' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

type parser struct {
	lex lexer
	tok token
}

func (p *parser) next() { p.tok = p.lex.next() }

func (p *parser) errorf(format string, args ...interface{}) error {
	err := errors.Newf(format, args...)
	return errors.Mark(
		errors.Wrapf(err, "at or near position %d in %q", p.tok.pos, p.lex.in), ErrInvalidArgument)
}

func (p *parser) keyword(kw string) bool {
	return p.tok.kind == tokIdent && strings.EqualFold(p.tok.text, kw)
}

func (p *parser) parseOr() (Expr, error) {
	var exprs []Expr
	for {
		e, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if !p.keyword("OR") {
			break
		}
		p.next()
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return &Or{Exprs: exprs}, nil
}

func (p *parser) parseAnd() (Expr, error) {
	var exprs []Expr
	for {
		e, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if !p.keyword("AND") {
			break
		}
		p.next()
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return &And{Exprs: exprs}, nil
}

func (p *parser) parseTerm() (Expr, error) {
	switch {
	case p.tok.kind == tokError:
		return nil, p.errorf("%s", p.tok.text)
	case p.tok.kind == tokLParen:
		p.next()
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, p.errorf("expected \")\", found %s", p.tok)
		}
		p.next()
		return e, nil
	case p.keyword("TRUE"):
		p.next()
		return TrueExpr, nil
	case p.keyword("FALSE"):
		p.next()
		return FalseExpr, nil
	case p.keyword("AND"), p.keyword("OR"):
		return nil, p.errorf("expected predicate, found keyword %s", strings.ToUpper(p.tok.text))
	case p.tok.kind == tokIdent:
		return p.parseComparison()
	}
	return nil, p.errorf("expected predicate, found %s", p.tok)
}

func (p *parser) parseComparison() (Expr, error) {
	sym := Symbol(p.tok.text)
	p.next()
	if p.tok.kind != tokOp {
		return nil, p.errorf("expected comparison operator, found %s", p.tok)
	}
	op, err := ParseCompareOp(p.tok.text)
	if err != nil {
		return nil, p.errorf("unknown comparison operator %s", p.tok)
	}
	p.next()
	var val tupledomain.Value
	switch p.tok.kind {
	case tokInt:
		i, err := strconv.ParseInt(p.tok.text, 10, 64)
		if err != nil {
			return nil, p.errorf("invalid integer %s", p.tok)
		}
		val = tupledomain.MakeInt(i)
	case tokString:
		val = tupledomain.MakeString(p.tok.text)
	default:
		return nil, p.errorf("expected literal, found %s", p.tok)
	}
	p.next()
	return &Comparison{Left: sym, Op: op, Right: val}, nil
}
