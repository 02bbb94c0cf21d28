// Package ast defines the typed abstract syntax tree produced by
// internal/parse, per spec section 4.D. Node shapes follow the teacher's
// parse/parse.go Expr hierarchy (unary/binary/variableExpr/sliceExpr),
// generalized to Rill's statement-oriented grammar and richer parameter
// and field metadata.
package ast

import "github.com/rill-lang/rill/internal/decimal"

// Type is one of the parameter/field/declaration type keywords.
type Type string

const (
	TypeAny  Type = "any"
	TypeDec  Type = "dec"
	TypeStr  Type = "str"
	TypeBin  Type = "bin"
	TypeList Type = "list"
)

// Expr is any expression node.
type Expr interface {
	exprNode()
	Line() int
}

// Stmt is any statement node.
type Stmt interface {
	stmtNode()
	Line() int
}

// Pos carries the source line a node started on; embedded (exported) in
// every node so package parse can set it directly via a struct literal.
type Pos struct{ LineNo int }

func (p Pos) Line() int { return p.LineNo }

// base is an alias kept for brevity in this file's node definitions.
type base = Pos

// At is a convenience constructor for Pos, used by package parse.
func At(line int) Pos { return Pos{LineNo: line} }

// ---- Expressions ----

type NumberLit struct {
	base
	Value decimal.Decimal
}

type StringLit struct {
	base
	Value string
}

type HexLit struct {
	base
	Value string // hex digits, no "0x" prefix
}

type NullLit struct{ base }

type EmptyListLit struct{ base }

type ListLit struct {
	base
	Elements []Expr
}

type Identifier struct {
	base
	Name string
}

type Unary struct {
	base
	Op    string // "-"
	Right Expr
}

type Binary struct {
	base
	Op    string
	Left  Expr
	Right Expr
}

type Assign struct {
	base
	Target Expr // Identifier, Subscript, or Member
	Value  Expr
}

type Subscript struct {
	base
	List  Expr
	Index Expr
}

type Member struct {
	base
	Object Expr
	Name   string
}

type Call struct {
	base
	Callee Expr
	Args   []Expr
}

func (*NumberLit) exprNode()    {}
func (*StringLit) exprNode()    {}
func (*HexLit) exprNode()       {}
func (*NullLit) exprNode()      {}
func (*EmptyListLit) exprNode() {}
func (*ListLit) exprNode()      {}
func (*Identifier) exprNode()   {}
func (*Unary) exprNode()        {}
func (*Binary) exprNode()       {}
func (*Assign) exprNode()       {}
func (*Subscript) exprNode()    {}
func (*Member) exprNode()       {}
func (*Call) exprNode()         {}

// ---- Statement-level metadata: parameters and fields ----

// Param describes one function parameter or class field: its declared
// type, name, and an optional default literal expression.
type Param struct {
	Type    Type
	Name    string
	Default Expr // nil if no default
}

// ---- Statements ----

type VarDecl struct {
	base
	Type  Type
	Name  string
	Value Expr // nil if no initializer
}

type ExprStmt struct {
	base
	X Expr
}

type If struct {
	base
	Cond Expr
	Then []Stmt
	Else []Stmt
}

type While struct {
	base
	Cond    Expr
	Body    []Stmt
	Finally []Stmt
}

type Await struct {
	base
	Cond Expr
	Body []Stmt
}

type Try struct {
	base
	Body      []Stmt
	CatchName string
	Catch     []Stmt
	Finally   []Stmt
}

type Raise struct {
	base
	Value Expr
}

type FuncDef struct {
	base
	Name   string
	Params []Param
	Body   []Stmt
}

type ClassDef struct {
	base
	Name    string
	Fields  []Param
	Methods []*FuncDef
}

type Say struct {
	base
	Value Expr
}

type Return struct {
	base
	Value Expr // nil if bare return
}

func (*VarDecl) stmtNode()  {}
func (*ExprStmt) stmtNode() {}
func (*If) stmtNode()       {}
func (*While) stmtNode()    {}
func (*Await) stmtNode()    {}
func (*Try) stmtNode()      {}
func (*Raise) stmtNode()    {}
func (*FuncDef) stmtNode()  {}
func (*ClassDef) stmtNode() {}
func (*Say) stmtNode()      {}
func (*Return) stmtNode()   {}
