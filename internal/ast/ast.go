// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package ast defines the Abstract Syntax Tree produced by the parser.
//
// Design overview:
//
//   - Nodes are immutable once constructed by the parser's single
//     left-to-right pass; downstream stages (name resolution, type
//     checking, bytecode emission) treat them as read-only values.
//   - Spanned[T] (see span.go) carries the byte range of input that
//     produced a node. Every Spanned node's span is contained within its
//     parent's.
//   - Var and Field names are plain strings; the parser is the only stage
//     that rejects reserved identifiers (see internal/token).
package ast

import "fmt"

// Var is a local variable or parameter name.
type Var string

// Field is a struct field name.
type Field string

// TypeVar is a type-parameter identifier introduced by a struct or
// function's type-formals list.
type TypeVar string

// ---------------------------------------------------------------------------
// Kind
// ---------------------------------------------------------------------------

// Kind classifies a type parameter: Resource (linear, non-duplicable),
// Unrestricted (freely copyable/droppable), or All (unconstrained, the
// default when no kind annotation is written).
type Kind int

const (
	KindAll Kind = iota
	KindResource
	KindUnrestricted
)

func (k Kind) String() string {
	switch k {
	case KindResource:
		return "resource"
	case KindUnrestricted:
		return "unrestricted"
	default:
		return "all"
	}
}

// TypeFormal is one entry of a struct's or function's type-formals list:
// a type variable together with the kind it is constrained to.
type TypeFormal struct {
	Var  TypeVar
	Kind Kind
}

// ---------------------------------------------------------------------------
// Module idents & imports
// ---------------------------------------------------------------------------

// AddressBytes is a fixed-width (<=32 byte) account address, decoded
// MSB-first from a hex literal and zero-padded on the left.
type AddressBytes [32]byte

func (a AddressBytes) String() string { return fmt.Sprintf("0x%x", [32]byte(a)) }

// ModuleIdentKind distinguishes the two surface forms of a module ident.
type ModuleIdentKind int

const (
	ModuleIdentQualified   ModuleIdentKind = iota // address.module_name
	ModuleIdentTransaction                        // Transaction.module_name
)

// ModuleIdent identifies a module either by address (Qualified) or by the
// special transaction scope (Transaction.<name>).
type ModuleIdent struct {
	Kind       ModuleIdentKind
	Address    AddressBytes // valid only when Kind == ModuleIdentQualified
	ModuleName string
}

// ModuleName is the optional alias bound by an import statement.
type ModuleName string

// ImportDefinition is one `import <ident> [as <alias>];` declaration.
type ImportDefinition struct {
	Ident ModuleIdent
	Alias *ModuleName // nil when no "as" clause was written
}

// ModuleAlias is the bare leading identifier of a two-component dotted
// reference at a use site (a qualified struct ident, a qualified function
// call): either an import alias or the reserved "Self" alias referring to
// the enclosing module. Unlike ModuleIdent, this is not resolved to an
// address by the parser -- alias resolution is a semantic-analysis concern
// that runs after parsing.
type ModuleAlias string

// QualifiedStructIdent names a struct inside another module: `Module.Struct`.
type QualifiedStructIdent struct {
	Module ModuleAlias
	Name   string
}

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// Type is the marker interface for every type-expression node.
type Type interface{ typeNode() }

type (
	// TyAddress is the primitive `address` type.
	TyAddress struct{}
	// TyU64 is the primitive `u64` type.
	TyU64 struct{}
	// TyBool is the primitive `bool` type.
	TyBool struct{}
	// TyByteArray is the primitive `bytearray` type.
	TyByteArray struct{}
)

func (TyAddress) typeNode()   {}
func (TyU64) typeNode()       {}
func (TyBool) typeNode()      {}
func (TyByteArray) typeNode() {}

// TyStruct names a (possibly generic) struct type: Module.Name<actuals>.
type TyStruct struct {
	Ident   QualifiedStructIdent
	Actuals []Type
}

func (*TyStruct) typeNode() {}

// TyReference is `&T` (IsMut=false) or `&mut T` (IsMut=true).
type TyReference struct {
	IsMut bool
	Inner Type
}

func (*TyReference) typeNode() {}

// TyParameter is a bare type-formal reference; the parser does not
// distinguish it from an unqualified struct name (left to name resolution).
type TyParameter struct {
	Var TypeVar
}

func (*TyParameter) typeNode() {}

// ---------------------------------------------------------------------------
// Values & expressions
// ---------------------------------------------------------------------------

// CopyableVal is a literal value usable directly as an Exp.
type CopyableVal interface{ copyableVal() }

type (
	ValAddress   struct{ Value AddressBytes }
	ValBool      struct{ Value bool }
	ValU64       struct{ Value uint64 }
	ValByteArray struct{ Value []byte }
)

func (ValAddress) copyableVal()   {}
func (ValBool) copyableVal()      {}
func (ValU64) copyableVal()       {}
func (ValByteArray) copyableVal() {}

// BinOp is a dyadic operator recognized by the eight-tier expression
// grammar (see spec §4.2).
type BinOp int

const (
	OpEq BinOp = iota
	OpNeq
	OpLt
	OpGt
	OpLe
	OpGe
	OpOr
	OpAnd
	OpXor
	OpBitOr
	OpBitAnd
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
)

var binOpNames = map[BinOp]string{
	OpEq: "==", OpNeq: "!=", OpLt: "<", OpGt: ">", OpLe: "<=", OpGe: ">=",
	OpOr: "||", OpAnd: "&&", OpXor: "^", OpBitOr: "|", OpBitAnd: "&",
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%",
}

func (o BinOp) String() string { return binOpNames[o] }

// UnaryOp is a monadic operator: logical not.
type UnaryOp int

const (
	OpNot UnaryOp = iota
)

func (UnaryOp) String() string { return "!" }

// Exp is the marker interface for every expression node. Every Exp is
// wrapped in Spanned[Exp] by the parser (see span.go).
type Exp interface{ expNode() }

type (
	// ExpValue is a literal CopyableVal.
	ExpValue struct{ Val CopyableVal }

	// ExpMove consumes a local by move: `move(x)`.
	ExpMove struct{ Name Var }

	// ExpCopy reads a local by explicit copy: `copy(x)`.
	ExpCopy struct{ Name Var }

	// ExpBorrowLocal borrows a local: `&x` (IsMut=false) or `&mut x`.
	ExpBorrowLocal struct {
		IsMut bool
		Name  Var
	}

	// ExpDereference is `*e`.
	ExpDereference struct{ Inner Spanned[Exp] }

	// ExpUnary is a monadic operator expression.
	ExpUnary struct {
		Op    UnaryOp
		Inner Spanned[Exp]
	}

	// ExpBinop is a dyadic operator expression, always left-associative.
	ExpBinop struct {
		Left  Spanned[Exp]
		Op    BinOp
		Right Spanned[Exp]
	}

	// ExpBorrow is a field-projection borrow: `&e.field` / `&mut e.field`.
	ExpBorrow struct {
		IsMut bool
		Inner Spanned[Exp]
		Field Field
	}

	// ExpPack is a struct literal: `Name<actuals>{f: e, ...}`. Field order
	// as written is not semantically meaningful; field names must be
	// unique (see internal/parser for the duplicate-field policy).
	ExpPack struct {
		Name    string
		Actuals []Type
		Fields  map[Field]Spanned[Exp]
	}

	// ExpCall applies a FunctionCall to an argument, conventionally an
	// ExprList.
	ExpCall struct {
		Fn  FunctionCall
		Arg Spanned[Exp]
	}

	// ExpList represents a parenthesized, comma-separated expression list
	// -- a tuple / multi-argument form.
	ExpList struct{ Elems []Spanned[Exp] }
)

func (ExpValue) expNode()       {}
func (ExpMove) expNode()        {}
func (ExpCopy) expNode()        {}
func (ExpBorrowLocal) expNode() {}
func (*ExpDereference) expNode() {}
func (*ExpUnary) expNode()      {}
func (*ExpBinop) expNode()      {}
func (*ExpBorrow) expNode()     {}
func (*ExpPack) expNode()       {}
func (*ExpCall) expNode()       {}
func (*ExpList) expNode()       {}

// FunctionCall is the callee half of an ExpCall: either a reserved builtin
// or a module-qualified user function.
type FunctionCall interface{ functionCall() }

// FCBuiltin calls a reserved builtin (see internal/builtins).
type FCBuiltin struct {
	Name        string
	TypeActuals []Type // non-nil only for generic builtins, e.g. exists<T>
}

// FCModuleFunction calls `module.name<type_actuals>(...)`.
type FCModuleFunction struct {
	Module      ModuleAlias
	Name        string
	TypeActuals []Type
}

func (FCBuiltin) functionCall()        {}
func (FCModuleFunction) functionCall() {}

// ---------------------------------------------------------------------------
// LValues & commands
// ---------------------------------------------------------------------------

// LValue is the marker interface for assignment/unpack targets.
type LValue interface{ lvalueNode() }

type (
	// LValueVar binds to a plain local.
	LValueVar struct{ Name Var }
	// LValueMutate writes through a reference: `*e`.
	LValueMutate struct{ Inner Spanned[Exp] }
	// LValuePop discards the value: `_`.
	LValuePop struct{}
)

func (LValueVar) lvalueNode()    {}
func (*LValueMutate) lvalueNode() {}
func (LValuePop) lvalueNode()    {}

// Cmd is the marker interface for every imperative command node.
type Cmd interface{ cmdNode() }

type (
	// CmdAssign is `lv1, lv2, ... = e;`.
	CmdAssign struct {
		LValues []LValue
		Rhs     Spanned[Exp]
	}

	// CmdUnpack destructures a struct value: `Name<actuals>{f: v, ...} = e;`.
	CmdUnpack struct {
		Name     string
		Actuals  []Type
		Bindings map[Field]Var
		Rhs      Spanned[Exp]
	}

	// CmdAbort is `abort [e];`.
	CmdAbort struct{ ErrorCode *Spanned[Exp] }

	// CmdReturn is `return e1, e2, ...;`. The expression list is always
	// boxed, even when empty.
	CmdReturn struct{ Value Spanned[Exp] }

	// CmdContinue is `continue;`.
	CmdContinue struct{}
	// CmdBreak is `break;`.
	CmdBreak struct{}
	// CmdExp is a bare call or expression list used as a command.
	CmdExp struct{ Value Spanned[Exp] }
)

func (*CmdAssign) cmdNode()   {}
func (*CmdUnpack) cmdNode()   {}
func (*CmdAbort) cmdNode()    {}
func (*CmdReturn) cmdNode()   {}
func (CmdContinue) cmdNode()  {}
func (CmdBreak) cmdNode()     {}
func (*CmdExp) cmdNode()      {}

// ---------------------------------------------------------------------------
// Statements & blocks
// ---------------------------------------------------------------------------

// Statement is the marker interface for statement nodes.
type Statement interface{ stmtNode() }

type (
	// StmtCommand wraps a Cmd that was terminated with ";".
	StmtCommand struct{ Cmd Spanned[Cmd] }

	// StmtIfElse is `if (e) block [else block]`. Else is nil when absent.
	StmtIfElse struct {
		Cond Spanned[Exp]
		Then Block
		Else *Block
	}

	// StmtWhile is `while (e) block`.
	StmtWhile struct {
		Cond Spanned[Exp]
		Body Block
	}

	// StmtLoop is `loop block`.
	StmtLoop struct{ Body Block }

	// StmtEmpty is a lone ";".
	StmtEmpty struct{}
)

func (*StmtCommand) stmtNode() {}
func (*StmtIfElse) stmtNode()  {}
func (*StmtWhile) stmtNode()   {}
func (*StmtLoop) stmtNode()    {}
func (StmtEmpty) stmtNode()    {}

// Block is an ordered sequence of statements.
type Block struct {
	Stmts []Spanned[Statement]
}

// ---------------------------------------------------------------------------
// Structs, functions, modules, scripts, programs
// ---------------------------------------------------------------------------

// FieldDefinition is one field of a (non-native) struct, in declared order.
type FieldDefinition struct {
	Name Field
	Type Type
}

// StructDefinition is a `struct`/`resource` declaration, Move-bodied or
// native. Field order as written is preserved; Fields is nil for natives.
type StructDefinition struct {
	IsResource  bool
	Native      bool
	Name        string
	TypeFormals []TypeFormal
	Fields      []FieldDefinition // nil when Native
}

// Visibility controls whether a function may be called from other modules.
type Visibility int

const (
	Internal Visibility = iota
	Public
)

// FunctionBody is either a Move-language body or a native declaration.
type FunctionBody struct {
	Native bool
	Locals []LocalDecl // nil when Native
	Code   Block       // zero value when Native
}

// LocalDecl is one `let v: T;` declaration; all locals precede all
// statements in a function body (see spec §4.3).
type LocalDecl struct {
	Name Var
	Type Type
}

// Param is one (name, type) entry of a function's argument list.
type Param struct {
	Name Var
	Type Type
}

// Function is a top-level function declaration.
type Function struct {
	Visibility  Visibility
	Name        string
	TypeFormals []TypeFormal
	Args        []Param
	Return      []Type // possibly empty
	Acquires    []string
	Body        FunctionBody
}

// Module is `module Name { imports* structs* functions* }`; the grammar
// fixes this declaration order.
type Module struct {
	Name      string
	Imports   []ImportDefinition
	Structs   []*StructDefinition
	Functions []*Function
}

// Script is a top-level `main` function together with its imports,
// representing one transaction.
type Script struct {
	Imports []ImportDefinition
	Main    *Function
}

// ScriptOrModule is a tagged union of the two top-level compilation unit
// shapes the grammar accepts outside of the `modules: ... script: ...` form.
type ScriptOrModule struct {
	Script *Script // exactly one of Script/Module is non-nil
	Module *Module
}

// Program is the root compilation unit: an ordered sequence of modules plus
// a single script. A bare module with no script has an empty, synthesized
// public main (see spec §4.6 "Program").
type Program struct {
	Modules []*Module
	Script  *Script
}

// SyntheticMain returns the empty public main() function fabricated when a
// Program is built from a bare module with no explicit script.
func SyntheticMain() *Function {
	return &Function{
		Visibility: Public,
		Name:       "main",
		Body: FunctionBody{
			Code: Block{Stmts: []Spanned[Statement]{
				{Value: &StmtCommand{Cmd: Spanned[Cmd]{Value: &CmdReturn{
					Value: Spanned[Exp]{Value: &ExpList{}},
				}}}},
			}},
		},
	}
}
