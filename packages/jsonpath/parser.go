package jsonpath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Compile parses expr into a reusable Path.
func Compile(expr string) (*Path, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return nil, &SyntaxError{Expr: expr, Msg: "empty expression"}
	}

	src := trimmed
	switch src[0] {
	case '$':
	case '[':
		src = "$" + src
	default:
		src = "$." + src
	}

	p := &parser{expr: src}
	path, err := p.parseQuery('$')
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, p.errorf("unexpected %q", p.peek())
	}
	path.expr = trimmed
	return path, nil
}

// MustCompile is like Compile but panics if the expression cannot be parsed.
func MustCompile(expr string) *Path {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

type parser struct {
	expr string
	pos  int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.expr)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.expr[p.pos]
}

func (p *parser) peekAt(offset int) byte {
	if p.pos+offset >= len(p.expr) {
		return 0
	}
	return p.expr[p.pos+offset]
}

func (p *parser) skipSpaces() {
	for !p.eof() && isSpace(p.peek()) {
		p.pos++
	}
}

func (p *parser) expect(ch byte) error {
	if p.peek() != ch {
		if p.eof() {
			return p.errorf("expected %q, got end of expression", ch)
		}
		return p.errorf("expected %q, got %q", ch, p.peek())
	}
	p.pos++
	return nil
}

func (p *parser) errorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Expr: p.expr, Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

// parseQuery reads a root marker ($ or @) followed by any number of segments.
// It stops at the first byte that cannot continue the query, leaving it for
// the caller.
func (p *parser) parseQuery(root byte) (*Path, error) {
	start := p.pos
	if err := p.expect(root); err != nil {
		return nil, err
	}

	path := &Path{}
	for {
		switch p.peek() {
		case '.':
			if p.peekAt(1) == '.' {
				p.pos += 2
				seg, err := p.parseDeepSegment()
				if err != nil {
					return nil, err
				}
				path.segments = append(path.segments, seg)
				continue
			}
			p.pos++
			seg, fn, err := p.parseDotSegment()
			if err != nil {
				return nil, err
			}
			if fn != fnNone {
				path.fn = fn
				path.expr = p.expr[start:p.pos]
				return path, nil
			}
			path.segments = append(path.segments, seg)
		case '[':
			sel, err := p.parseBracket()
			if err != nil {
				return nil, err
			}
			path.segments = append(path.segments, segment{sel: sel})
		default:
			path.expr = p.expr[start:p.pos]
			return path, nil
		}
	}
}

func (p *parser) parseDotSegment() (segment, function, error) {
	if p.peek() == '*' {
		p.pos++
		return segment{sel: wildcardSelector{}}, fnNone, nil
	}

	name := p.readName()
	if name == "" {
		return segment{}, fnNone, p.errorf("expected member name after '.'")
	}

	if p.peek() == '(' {
		fn, ok := functionNames[name]
		if !ok {
			return segment{}, fnNone, p.errorf("unknown function %q", name)
		}
		p.pos++
		if err := p.expect(')'); err != nil {
			return segment{}, fnNone, err
		}
		return segment{}, fn, nil
	}

	return segment{sel: nameSelector{names: []string{name}}}, fnNone, nil
}

func (p *parser) parseDeepSegment() (segment, error) {
	switch p.peek() {
	case '*':
		p.pos++
		return segment{sel: wildcardSelector{}, deep: true}, nil
	case '[':
		sel, err := p.parseBracket()
		if err != nil {
			return segment{}, err
		}
		return segment{sel: sel, deep: true}, nil
	}

	name := p.readName()
	if name == "" {
		return segment{}, p.errorf("expected member name after '..'")
	}
	if p.peek() == '(' {
		return segment{}, p.errorf("function %q cannot follow a deep scan", name)
	}
	return segment{sel: nameSelector{names: []string{name}}, deep: true}, nil
}

// readName consumes an unquoted member name as used in dot notation.
func (p *parser) readName() string {
	start := p.pos
	for !p.eof() && !isNameTerminator(p.peek()) {
		p.pos++
	}
	return p.expr[start:p.pos]
}

func (p *parser) parseBracket() (selector, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	p.skipSpaces()

	var (
		sel selector
		err error
	)
	switch ch := p.peek(); {
	case ch == '*':
		p.pos++
		sel = wildcardSelector{}
	case ch == '\'' || ch == '"':
		sel, err = p.parseNames()
	case ch == '?':
		p.pos++
		sel, err = p.parseFilter()
	case ch == '-' || ch == ':' || isDigit(ch):
		sel, err = p.parseIndexOrSlice()
	case ch == 0:
		return nil, p.errorf("unterminated bracket")
	default:
		return nil, p.errorf("unexpected %q in brackets", ch)
	}
	if err != nil {
		return nil, err
	}

	p.skipSpaces()
	if err := p.expect(']'); err != nil {
		return nil, err
	}
	return sel, nil
}

func (p *parser) parseNames() (selector, error) {
	var names []string
	for {
		p.skipSpaces()
		name, err := p.readQuoted()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		p.skipSpaces()
		if p.peek() != ',' {
			return nameSelector{names: names}, nil
		}
		p.pos++
	}
}

// readQuoted consumes a single- or double-quoted string and returns its
// unescaped content.
func (p *parser) readQuoted() (string, error) {
	quote := p.peek()
	if quote != '\'' && quote != '"' {
		return "", p.errorf("expected quoted string")
	}
	p.pos++

	var sb strings.Builder
	for {
		if p.eof() {
			return "", p.errorf("unterminated string")
		}
		ch := p.peek()
		switch {
		case ch == quote:
			p.pos++
			return sb.String(), nil
		case ch == '\\':
			p.pos++
			if err := p.readEscape(&sb); err != nil {
				return "", err
			}
		default:
			r, size := utf8.DecodeRuneInString(p.expr[p.pos:])
			sb.WriteRune(r)
			p.pos += size
		}
	}
}

func (p *parser) readEscape(sb *strings.Builder) error {
	if p.eof() {
		return p.errorf("unterminated escape sequence")
	}
	ch := p.peek()
	p.pos++
	switch ch {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'u':
		if p.pos+4 > len(p.expr) {
			return p.errorf("short unicode escape")
		}
		code, err := strconv.ParseUint(p.expr[p.pos:p.pos+4], 16, 32)
		if err != nil {
			return p.errorf("invalid unicode escape")
		}
		sb.WriteRune(rune(code))
		p.pos += 4
	default:
		sb.WriteByte(ch)
	}
	return nil
}

func (p *parser) parseIndexOrSlice() (selector, error) {
	first, err := p.readOptionalInt()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()

	if p.peek() == ':' {
		return p.parseSlice(first)
	}
	if first == nil {
		return nil, p.errorf("expected array index")
	}

	indices := []int{*first}
	for p.peek() == ',' {
		p.pos++
		p.skipSpaces()
		idx, err := p.readOptionalInt()
		if err != nil {
			return nil, err
		}
		if idx == nil {
			return nil, p.errorf("expected array index after ','")
		}
		indices = append(indices, *idx)
		p.skipSpaces()
	}
	return indexSelector{indices: indices}, nil
}

func (p *parser) parseSlice(start *int) (selector, error) {
	sel := sliceSelector{start: start}

	p.pos++ // ':'
	p.skipSpaces()
	end, err := p.readOptionalInt()
	if err != nil {
		return nil, err
	}
	sel.end = end
	p.skipSpaces()

	if p.peek() == ':' {
		p.pos++
		p.skipSpaces()
		step, err := p.readOptionalInt()
		if err != nil {
			return nil, err
		}
		if step != nil && *step == 0 {
			return nil, p.errorf("slice step cannot be zero")
		}
		sel.step = step
	}
	return sel, nil
}

func (p *parser) readOptionalInt() (*int, error) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	for !p.eof() && isDigit(p.peek()) {
		p.pos++
	}
	text := p.expr[start:p.pos]
	if text == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		p.pos = start
		return nil, p.errorf("invalid integer %q", text)
	}
	return &n, nil
}

func (p *parser) parseFilter() (selector, error) {
	p.skipSpaces()
	if err := p.expect('('); err != nil {
		return nil, err
	}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return filterSelector{expr: expr}, nil
}

func (p *parser) parseOr() (filterExpr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpaces()
		if p.peek() != '|' || p.peekAt(1) != '|' {
			return left, nil
		}
		p.pos += 2
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orExpr{left: left, right: right}
	}
}

func (p *parser) parseAnd() (filterExpr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpaces()
		if p.peek() != '&' || p.peekAt(1) != '&' {
			return left, nil
		}
		p.pos += 2
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andExpr{left: left, right: right}
	}
}

func (p *parser) parseUnary() (filterExpr, error) {
	p.skipSpaces()
	if p.peek() == '!' && p.peekAt(1) != '=' {
		p.pos++
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notExpr{inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (filterExpr, error) {
	p.skipSpaces()
	if p.peek() == '(' {
		p.pos++
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		p.skipSpaces()
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return inner, nil
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	p.skipSpaces()
	op := p.readOperator()
	switch op {
	case "":
		if left.query == nil {
			return nil, p.errorf("a literal cannot be used as a filter condition")
		}
		return existsExpr{query: left.query, rel: left.rel}, nil
	case "=~":
		p.skipSpaces()
		re, err := p.readRegex()
		if err != nil {
			return nil, err
		}
		return matchExpr{left: left, re: re}, nil
	}

	p.skipSpaces()
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return compareExpr{left: left, op: op, right: right}, nil
}

func (p *parser) readOperator() string {
	for _, op := range []string{"==", "!=", "<=", ">=", "=~", "<", ">"} {
		if strings.HasPrefix(p.expr[p.pos:], op) {
			p.pos += len(op)
			return op
		}
	}
	return ""
}

func (p *parser) parseOperand() (operand, error) {
	switch ch := p.peek(); {
	case ch == '@' || ch == '$':
		query, err := p.parseQuery(ch)
		if err != nil {
			return operand{}, err
		}
		return operand{query: query, rel: ch == '@'}, nil
	case ch == '\'' || ch == '"':
		s, err := p.readQuoted()
		if err != nil {
			return operand{}, err
		}
		v := stringValue(s)
		return operand{literal: &v}, nil
	case ch == '-' || isDigit(ch):
		return p.parseNumber()
	case ch == 0:
		return operand{}, p.errorf("expected filter operand, got end of expression")
	}

	for _, kw := range []struct {
		word string
		val  value
	}{
		{"true", boolValue(true)},
		{"false", boolValue(false)},
		{"null", nullValue()},
	} {
		if strings.HasPrefix(p.expr[p.pos:], kw.word) {
			p.pos += len(kw.word)
			v := kw.val
			return operand{literal: &v}, nil
		}
	}
	return operand{}, p.errorf("unexpected %q in filter", p.peek())
}

func (p *parser) parseNumber() (operand, error) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	for !p.eof() {
		ch := p.peek()
		if isDigit(ch) || ch == '.' || ch == 'e' || ch == 'E' {
			p.pos++
			continue
		}
		if (ch == '+' || ch == '-') && (p.expr[p.pos-1] == 'e' || p.expr[p.pos-1] == 'E') {
			p.pos++
			continue
		}
		break
	}
	text := p.expr[start:p.pos]
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		p.pos = start
		return operand{}, p.errorf("invalid number %q", text)
	}
	v := numberValue(f)
	return operand{literal: &v}, nil
}

// readRegex consumes a /pattern/flags literal. Only the i flag is supported.
func (p *parser) readRegex() (*regexp.Regexp, error) {
	if err := p.expect('/'); err != nil {
		return nil, err
	}
	var sb strings.Builder
	for {
		if p.eof() {
			return nil, p.errorf("unterminated regular expression")
		}
		ch := p.peek()
		p.pos++
		if ch == '/' {
			break
		}
		if ch == '\\' && p.peek() == '/' {
			sb.WriteByte('/')
			p.pos++
			continue
		}
		sb.WriteByte(ch)
	}

	pattern := sb.String()
	if p.peek() == 'i' {
		p.pos++
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, p.errorf("invalid regular expression: %v", err)
	}
	return re, nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isNameTerminator(ch byte) bool {
	switch ch {
	case '.', '[', ']', '(', ')', '=', '!', '<', '>', '&', '|', ',', '\'', '"':
		return true
	}
	return isSpace(ch)
}
