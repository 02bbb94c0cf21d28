// Package parse implements Rill's recursive-descent parser (spec section
// 4.D), grounded on the teacher's parse/parse.go (robpike.io/ivy): a
// Parser struct wrapping a token source with next/peek helpers and an
// errorf that recovers at a statement boundary, generalized from ivy's
// single-expression-per-line APL grammar to Rill's block-structured
// statement grammar and typed parameter/field metadata.
package parse

import (
	"github.com/rill-lang/rill/internal/ast"
	"github.com/rill-lang/rill/internal/decimal"
	"github.com/rill-lang/rill/internal/lex"
	"github.com/rill-lang/rill/internal/rillerr"
	"github.com/rill-lang/rill/internal/rlog"
)

// Parser holds the state for Rill's parser: the whole token stream,
// buffered up front (unlike the teacher's incremental channel peek/next,
// since a block grammar needs to look arbitrarily far ahead to find a
// block's closing keyword during error recovery) plus the accumulated
// parse errors.
type Parser struct {
	fileName string
	tokens   []lex.Token
	pos      int
	errs     []*rillerr.Error
	log      *rlog.Logger
}

// NewParser lexes the entire source and returns a Parser ready to produce
// a statement list.
func NewParser(fileName, src string) *Parser {
	return NewParserWithLogger(fileName, src, nil)
}

// NewParserWithLogger is NewParser plus a "parse" topic trace emitted at
// every statement dispatch, gated the same way config.Config.Debug(topic)
// gates the teacher's fmt.Printf traces. A nil log behaves exactly like
// NewParser.
func NewParserWithLogger(fileName, src string, log *rlog.Logger) *Parser {
	l := lex.NewWithLogger(fileName, src, log)
	var toks []lex.Token
	for tok := range l.Tokens {
		toks = append(toks, tok)
		if tok.Type == lex.EOF {
			break
		}
	}
	return &Parser{fileName: fileName, tokens: toks, log: log}
}

func (p *Parser) cur() lex.Token {
	if p.pos >= len(p.tokens) {
		return lex.Token{Type: lex.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() lex.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) at(t lex.Type) bool { return p.cur().Type == t }

func (p *Parser) errorf(line int, format string, args ...interface{}) {
	p.errs = append(p.errs, rillerr.New(rillerr.SyntaxError, format, args...).WithLine(line))
}

func (p *Parser) expect(t lex.Type, what string) (lex.Token, bool) {
	if p.cur().Type != t {
		p.errorf(p.cur().Line, "expected %s, found %q", what, p.cur().Text)
		return lex.Token{}, false
	}
	return p.advance(), true
}

// Parse parses the whole token stream into a statement list, recovering
// at statement boundaries so multiple errors can be reported in one pass.
// A non-empty error slice means the program must not be executed.
func (p *Parser) Parse() ([]ast.Stmt, []*rillerr.Error) {
	var stmts []ast.Stmt
	for !p.at(lex.EOF) {
		before := p.pos
		stmt := p.statement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if p.pos == before {
			// Safety valve: statement() must always consume something.
			p.advance()
		}
	}
	return stmts, p.errs
}

var blockEnders = map[lex.Type]bool{
	lex.KwEndif: true, lex.KwElse: true,
	lex.KwEndwhile: true, lex.KwFinally: true,
	lex.KwEndawait: true,
	lex.KwEndtry: true, lex.KwCatch: true,
	lex.KwEnddef: true, lex.KwEndins: true,
	lex.EOF: true,
}

var stmtStarters = map[lex.Type]bool{
	lex.KwDec: true, lex.KwStr: true, lex.KwBin: true, lex.KwList: true,
	lex.KwIf: true, lex.KwWhile: true, lex.KwAwait: true, lex.KwTry: true,
	lex.KwRaise: true, lex.KwDef: true, lex.KwIns: true, lex.KwSay: true,
	lex.KwReturn: true,
}

// synchronize skips tokens until one that plausibly starts a new statement
// or closes the current block, so a later error doesn't cascade.
func (p *Parser) synchronize() {
	for !p.at(lex.EOF) && !stmtStarters[p.cur().Type] && !blockEnders[p.cur().Type] {
		p.advance()
	}
}

func (p *Parser) statement() ast.Stmt {
	tok := p.cur()
	p.log.Debug("parse", "statement", "token", tok.String(), "line", tok.Line)
	switch tok.Type {
	case lex.KwDec, lex.KwStr, lex.KwBin, lex.KwList:
		return p.varDecl()
	case lex.KwIf:
		return p.ifStmt()
	case lex.KwWhile:
		return p.whileStmt()
	case lex.KwAwait:
		return p.awaitStmt()
	case lex.KwTry:
		return p.tryStmt()
	case lex.KwRaise:
		return p.raiseStmt()
	case lex.KwDef:
		return p.funcDef()
	case lex.KwIns:
		return p.classDef()
	case lex.KwSay:
		return p.sayStmt()
	case lex.KwReturn:
		return p.returnStmt()
	case lex.EOF:
		return nil
	default:
		before := len(p.errs)
		x := p.expression()
		if len(p.errs) > before {
			p.synchronize()
			return nil
		}
		return &ast.ExprStmt{Pos: ast.At(tok.Line), X: x}
	}
}

func declType(t lex.Type) ast.Type {
	switch t {
	case lex.KwDec:
		return ast.TypeDec
	case lex.KwStr:
		return ast.TypeStr
	case lex.KwBin:
		return ast.TypeBin
	case lex.KwList:
		return ast.TypeList
	case lex.KwAny:
		return ast.TypeAny
	}
	return ast.TypeAny
}

func (p *Parser) varDecl() ast.Stmt {
	typeTok := p.advance()
	nameTok, ok := p.expect(lex.Identifier, "identifier")
	if !ok {
		p.synchronize()
		return nil
	}
	decl := &ast.VarDecl{Pos: ast.At(typeTok.Line), Type: declType(typeTok.Type), Name: nameTok.Text}
	if p.at(lex.Assign) {
		p.advance()
		decl.Value = p.expression()
	}
	return decl
}

func (p *Parser) block(enders ...lex.Type) []ast.Stmt {
	stop := make(map[lex.Type]bool, len(enders))
	for _, e := range enders {
		stop[e] = true
	}
	var stmts []ast.Stmt
	for !p.at(lex.EOF) && !stop[p.cur().Type] {
		before := p.pos
		s := p.statement()
		if s != nil {
			stmts = append(stmts, s)
		}
		if p.pos == before {
			p.advance()
		}
	}
	return stmts
}

func (p *Parser) ifStmt() ast.Stmt {
	tok := p.advance() // if
	cond := p.expression()
	p.expect(lex.KwThen, "'then'")
	thenBody := p.block(lex.KwElse, lex.KwEndif)
	var elseBody []ast.Stmt
	if p.at(lex.KwElse) {
		p.advance()
		elseBody = p.block(lex.KwEndif)
	}
	p.expect(lex.KwEndif, "'endif'")
	return &ast.If{Pos: ast.At(tok.Line), Cond: cond, Then: thenBody, Else: elseBody}
}

func (p *Parser) whileStmt() ast.Stmt {
	tok := p.advance() // while
	cond := p.expression()
	p.expect(lex.KwDo, "'do'")
	body := p.block(lex.KwFinally, lex.KwEndwhile)
	var finallyBody []ast.Stmt
	if p.at(lex.KwFinally) {
		p.advance()
		finallyBody = p.block(lex.KwEndwhile)
	}
	p.expect(lex.KwEndwhile, "'endwhile'")
	return &ast.While{Pos: ast.At(tok.Line), Cond: cond, Body: body, Finally: finallyBody}
}

func (p *Parser) awaitStmt() ast.Stmt {
	tok := p.advance() // await
	cond := p.expression()
	p.expect(lex.KwThen, "'then'")
	body := p.block(lex.KwEndawait)
	p.expect(lex.KwEndawait, "'endawait'")
	return &ast.Await{Pos: ast.At(tok.Line), Cond: cond, Body: body}
}

func (p *Parser) tryStmt() ast.Stmt {
	tok := p.advance() // try
	body := p.block(lex.KwCatch)
	p.expect(lex.KwCatch, "'catch'")
	nameTok, _ := p.expect(lex.Identifier, "identifier")
	catchBody := p.block(lex.KwFinally, lex.KwEndtry)
	var finallyBody []ast.Stmt
	if p.at(lex.KwFinally) {
		p.advance()
		finallyBody = p.block(lex.KwEndtry)
	}
	p.expect(lex.KwEndtry, "'endtry'")
	return &ast.Try{Pos: ast.At(tok.Line), Body: body, CatchName: nameTok.Text, Catch: catchBody, Finally: finallyBody}
}

func (p *Parser) raiseStmt() ast.Stmt {
	tok := p.advance() // raise
	val := p.expression()
	return &ast.Raise{Pos: ast.At(tok.Line), Value: val}
}

const maxParams = 255

func (p *Parser) params(end lex.Type) []ast.Param {
	var params []ast.Param
	if p.at(end) {
		return params
	}
	for {
		params = append(params, p.param())
		if len(params) > maxParams {
			p.errorf(p.cur().Line, "too many parameters (max %d)", maxParams)
		}
		if !p.at(lex.Comma) {
			break
		}
		p.advance()
	}
	return params
}

func (p *Parser) param() ast.Param {
	typeTok := p.advance() // dec/str/bin/list/any
	nameTok, _ := p.expect(lex.Identifier, "parameter name")
	param := ast.Param{Type: declType(typeTok.Type), Name: nameTok.Text}
	if p.at(lex.Assign) {
		p.advance()
		param.Default = p.defaultLiteral()
	}
	return param
}

// defaultLiteral parses a parameter/field default, which must start as a
// literal form (no bare identifier or call). The elements of a list
// default are parsed as ordinary expressions; a non-literal element is
// rejected by value.EvalLiteral when the default is used.
func (p *Parser) defaultLiteral() ast.Expr {
	tok := p.cur()
	switch tok.Type {
	case lex.Number, lex.StringLiteral, lex.HexLiteral, lex.KwNul, lex.LBracket:
		return p.primary()
	}
	p.errorf(tok.Line, "invalid default value %q", tok.Text)
	p.advance()
	return &ast.NullLit{Pos: ast.At(tok.Line)}
}

func (p *Parser) funcDef() ast.Stmt {
	tok := p.advance() // def
	nameTok, _ := p.expect(lex.Identifier, "function name")
	p.expect(lex.LParen, "'('")
	params := p.params(lex.RParen)
	p.expect(lex.RParen, "')'")
	p.expect(lex.KwDo, "'do'")
	body := p.block(lex.KwEnddef)
	p.expect(lex.KwEnddef, "'enddef'")
	return &ast.FuncDef{Pos: ast.At(tok.Line), Name: nameTok.Text, Params: params, Body: body}
}

func (p *Parser) classDef() ast.Stmt {
	tok := p.advance() // ins
	nameTok, _ := p.expect(lex.Identifier, "class name")
	var fields []ast.Param
	if p.at(lex.LParen) {
		p.advance()
		fields = p.params(lex.RParen)
		p.expect(lex.RParen, "')'")
	}
	p.expect(lex.KwContains, "'contains'")
	var methods []*ast.FuncDef
	for p.at(lex.KwDef) {
		m := p.funcDef()
		if fn, ok := m.(*ast.FuncDef); ok {
			methods = append(methods, fn)
		}
	}
	p.expect(lex.KwEndins, "'endins'")
	return &ast.ClassDef{Pos: ast.At(tok.Line), Name: nameTok.Text, Fields: fields, Methods: methods}
}

func (p *Parser) sayStmt() ast.Stmt {
	tok := p.advance() // say
	p.expect(lex.LParen, "'('")
	val := p.expression()
	p.expect(lex.RParen, "')'")
	return &ast.Say{Pos: ast.At(tok.Line), Value: val}
}

var stmtEnders = map[lex.Type]bool{
	lex.KwEndif: true, lex.KwElse: true, lex.KwEndwhile: true,
	lex.KwFinally: true, lex.KwEndawait: true, lex.KwEndtry: true,
	lex.KwCatch: true, lex.KwEnddef: true, lex.KwEndins: true,
	lex.EOF: true,
}

func (p *Parser) returnStmt() ast.Stmt {
	tok := p.advance() // return
	if stmtEnders[p.cur().Type] || stmtStarters[p.cur().Type] {
		return &ast.Return{Pos: ast.At(tok.Line)}
	}
	return &ast.Return{Pos: ast.At(tok.Line), Value: p.expression()}
}

// ---- Expressions, lowest to highest precedence: assignment; equality;
// comparison; additive; multiplicative; power (left-assoc); unary minus;
// call/subscript/member chain; primary. ----

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func isAssignTarget(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.Subscript, *ast.Member:
		return true
	}
	return false
}

func (p *Parser) assignment() ast.Expr {
	left := p.equality()
	if p.at(lex.Assign) {
		tok := p.advance()
		if !isAssignTarget(left) {
			p.errorf(tok.Line, "invalid assignment target")
		}
		right := p.assignment()
		return &ast.Assign{Pos: ast.At(tok.Line), Target: left, Value: right}
	}
	return left
}

func (p *Parser) equality() ast.Expr {
	left := p.comparison()
	for p.at(lex.Eq) || p.at(lex.Neq) {
		tok := p.advance()
		right := p.comparison()
		left = &ast.Binary{Pos: ast.At(tok.Line), Op: tok.Text, Left: left, Right: right}
	}
	return left
}

func (p *Parser) comparison() ast.Expr {
	left := p.additive()
	for p.at(lex.Lt) || p.at(lex.Le) || p.at(lex.Gt) || p.at(lex.Ge) {
		tok := p.advance()
		right := p.additive()
		left = &ast.Binary{Pos: ast.At(tok.Line), Op: tok.Text, Left: left, Right: right}
	}
	return left
}

func (p *Parser) additive() ast.Expr {
	left := p.multiplicative()
	for p.at(lex.Plus) || p.at(lex.Minus) {
		tok := p.advance()
		right := p.multiplicative()
		left = &ast.Binary{Pos: ast.At(tok.Line), Op: tok.Text, Left: left, Right: right}
	}
	return left
}

func (p *Parser) multiplicative() ast.Expr {
	left := p.power()
	for p.at(lex.Star) || p.at(lex.Slash) {
		tok := p.advance()
		right := p.power()
		left = &ast.Binary{Pos: ast.At(tok.Line), Op: tok.Text, Left: left, Right: right}
	}
	return left
}

func (p *Parser) power() ast.Expr {
	left := p.unary()
	for p.at(lex.Caret) {
		tok := p.advance()
		right := p.unary()
		left = &ast.Binary{Pos: ast.At(tok.Line), Op: "^", Left: left, Right: right}
	}
	return left
}

func (p *Parser) unary() ast.Expr {
	if p.at(lex.Minus) {
		tok := p.advance()
		right := p.unary()
		return &ast.Unary{Pos: ast.At(tok.Line), Op: "-", Right: right}
	}
	return p.callChain()
}

func (p *Parser) callChain() ast.Expr {
	expr := p.primary()
	for {
		switch p.cur().Type {
		case lex.LParen:
			tok := p.advance()
			var args []ast.Expr
			if !p.at(lex.RParen) {
				for {
					args = append(args, p.expression())
					if !p.at(lex.Comma) {
						break
					}
					p.advance()
				}
			}
			p.expect(lex.RParen, "')'")
			expr = &ast.Call{Pos: ast.At(tok.Line), Callee: expr, Args: args}
		case lex.LBracket:
			tok := p.advance()
			idx := p.expression()
			p.expect(lex.RBracket, "']'")
			expr = &ast.Subscript{Pos: ast.At(tok.Line), List: expr, Index: idx}
		case lex.Dot:
			tok := p.advance()
			nameTok, ok := p.expect(lex.Identifier, "member name")
			if !ok {
				return expr
			}
			expr = &ast.Member{Pos: ast.At(tok.Line), Object: expr, Name: nameTok.Text}
		default:
			return expr
		}
	}
}

func (p *Parser) primary() ast.Expr {
	tok := p.cur()
	switch tok.Type {
	case lex.Number:
		p.advance()
		d, err := decimal.Parse(tok.Text)
		if err != nil {
			p.errorf(tok.Line, "invalid number literal %q", tok.Text)
		}
		return &ast.NumberLit{Pos: ast.At(tok.Line), Value: d}
	case lex.StringLiteral:
		p.advance()
		return &ast.StringLit{Pos: ast.At(tok.Line), Value: unquote(tok.Text)}
	case lex.HexLiteral:
		p.advance()
		return &ast.HexLit{Pos: ast.At(tok.Line), Value: tok.Text[2:]}
	case lex.KwNul:
		p.advance()
		return &ast.NullLit{Pos: ast.At(tok.Line)}
	case lex.KwAsk:
		p.advance()
		p.expect(lex.LParen, "'('")
		prompt := p.expression()
		p.expect(lex.RParen, "')'")
		return &ast.Call{Pos: ast.At(tok.Line), Callee: &ast.Identifier{Pos: ast.At(tok.Line), Name: "ask"}, Args: []ast.Expr{prompt}}
	case lex.LBracket:
		p.advance()
		if p.at(lex.RBracket) {
			p.advance()
			return &ast.EmptyListLit{Pos: ast.At(tok.Line)}
		}
		var elems []ast.Expr
		for {
			elems = append(elems, p.expression())
			if !p.at(lex.Comma) {
				break
			}
			p.advance()
		}
		p.expect(lex.RBracket, "']'")
		return &ast.ListLit{Pos: ast.At(tok.Line), Elements: elems}
	case lex.LParen:
		p.advance()
		x := p.expression()
		p.expect(lex.RParen, "')'")
		return x
	case lex.Identifier:
		p.advance()
		return &ast.Identifier{Pos: ast.At(tok.Line), Name: tok.Text}
	default:
		p.errorf(tok.Line, "unexpected %q", tok.Text)
		if !p.at(lex.EOF) {
			p.advance()
		}
		return &ast.NullLit{Pos: ast.At(tok.Line)}
	}
}

func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}
