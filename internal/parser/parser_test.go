// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probelang/moveparse/internal/ast"
)

func mustModule(t *testing.T, src string) *ast.Module {
	t.Helper()
	m, err := Module("test.move", src)
	require.NoError(t, err)
	return m
}

func firstFunction(t *testing.T, m *ast.Module) *ast.Function {
	t.Helper()
	require.NotEmpty(t, m.Functions)
	return m.Functions[0]
}

func TestModule_StructAndFunction(t *testing.T) {
	src := `
module M {
	resource struct Coin { value: u64 }

	public deposit(c: &mut Coin, amount: u64) {
		*(&mut c.value) = 0;
	}
}`
	m := mustModule(t, src)
	assert.Equal(t, "M", m.Name)
	require.Len(t, m.Structs, 1)
	assert.True(t, m.Structs[0].IsResource)
	assert.Equal(t, "Coin", m.Structs[0].Name)
	require.Len(t, m.Structs[0].Fields, 1)
	assert.Equal(t, ast.Field("value"), m.Structs[0].Fields[0].Name)

	fn := firstFunction(t, m)
	assert.Equal(t, ast.Public, fn.Visibility)
	assert.Equal(t, "deposit", fn.Name)
	require.Len(t, fn.Args, 2)
}

func TestModule_GenericStruct(t *testing.T) {
	m := mustModule(t, `
module Container {
	resource struct Box<T: resource> { item: T }
}`)
	sd := m.Structs[0]
	require.Len(t, sd.TypeFormals, 1)
	assert.Equal(t, ast.TypeVar("T"), sd.TypeFormals[0].Var)
	assert.Equal(t, ast.KindResource, sd.TypeFormals[0].Kind)
}

func TestModule_NativeFunction(t *testing.T) {
	m := mustModule(t, `
module N {
	public native hash(data: bytearray): bytearray;
}`)
	fn := firstFunction(t, m)
	assert.True(t, fn.Body.Native)
	assert.Nil(t, fn.Body.Code.Stmts)
}

func TestExpression_PrecedenceIsLayered(t *testing.T) {
	m := mustModule(t, `
module P {
	public f() {
		return 1 + 2 * 3 == 7 && true;
	}
}`)
	fn := firstFunction(t, m)
	ret := fn.Body.Code.Stmts[0].Value.(*ast.StmtCommand).Cmd.Value.(*ast.CmdReturn)
	list := ret.Value.Value.(*ast.ExpList)
	require.Len(t, list.Elems, 1)

	// Comparison is the loosest tier, so "==" is the root node; "&&" binds
	// tighter and nests on the right, "+"/"*" nest on the left.
	top, ok := list.Elems[0].Value.(*ast.ExpBinop)
	require.True(t, ok)
	assert.Equal(t, ast.OpEq, top.Op)

	add, ok := top.Left.Value.(*ast.ExpBinop)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, add.Op, "+ binds looser than *, so it is the outer node on the left")

	mul, ok := add.Right.Value.(*ast.ExpBinop)
	require.True(t, ok)
	assert.Equal(t, ast.OpMul, mul.Op)

	and, ok := top.Right.Value.(*ast.ExpBinop)
	require.True(t, ok)
	assert.Equal(t, ast.OpAnd, and.Op, "&& binds tighter than ==, so it nests on the right")
}

func TestExpression_SpanContainment(t *testing.T) {
	m := mustModule(t, `
module S {
	public f() {
		return 1 + 2;
	}
}`)
	fn := firstFunction(t, m)
	stmt := fn.Body.Code.Stmts[0]
	cmd := stmt.Value.(*ast.StmtCommand).Cmd
	ret := cmd.Value.(*ast.CmdReturn)
	binop := ret.Value.Value.(*ast.ExpList).Elems[0].Value.(*ast.ExpBinop)

	assert.True(t, stmt.Span.Contains(cmd.Span))
	assert.True(t, cmd.Span.Contains(ret.Value.Span))
	assert.True(t, ret.Value.Span.Contains(binop.Left.Span))
	assert.True(t, ret.Value.Span.Contains(binop.Right.Span))
}

func TestAssert_DesugarsToIfAbortReusingSpans(t *testing.T) {
	m := mustModule(t, `
module A {
	public f() {
		assert(false, 42);
	}
}`)
	fn := firstFunction(t, m)
	stmt := fn.Body.Code.Stmts[0].Value
	ifElse, ok := stmt.(*ast.StmtIfElse)
	require.True(t, ok)
	assert.Nil(t, ifElse.Else)

	not, ok := ifElse.Cond.Value.(*ast.ExpUnary)
	require.True(t, ok)
	assert.Equal(t, ast.OpNot, not.Op)

	require.Len(t, ifElse.Then.Stmts, 1)
	abortCmd := ifElse.Then.Stmts[0].Value.(*ast.StmtCommand).Cmd.Value.(*ast.CmdAbort)
	require.NotNil(t, abortCmd.ErrorCode)

	// The desugaring reuses the condition's and the error code's own spans
	// rather than fabricating new ones.
	assert.Equal(t, not.Inner.Span, ifElse.Cond.Span)
	assert.Equal(t, abortCmd.ErrorCode.Span, ifElse.Then.Stmts[0].Span)
}

func TestLiterals_DecodeHexByteArrayAndAddress(t *testing.T) {
	m := mustModule(t, `
module L {
	public f() {
		return h"deadbeef", 0x1;
	}
}`)
	fn := firstFunction(t, m)
	ret := fn.Body.Code.Stmts[0].Value.(*ast.StmtCommand).Cmd.Value.(*ast.CmdReturn)
	elems := ret.Value.Value.(*ast.ExpList).Elems
	require.Len(t, elems, 2)

	bytes := elems[0].Value.(ast.ExpValue).Val.(ast.ValByteArray)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, bytes.Value)

	addr := elems[1].Value.(ast.ExpValue).Val.(ast.ValAddress)
	var want ast.AddressBytes
	want[31] = 0x01
	assert.Equal(t, want, addr.Value)
}

func TestLiterals_U64OverflowFails(t *testing.T) {
	_, err := Module("test.move", `
module L {
	public f() {
		return 99999999999999999999999;
	}
}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestImport_ReservedSelfAliasRejected(t *testing.T) {
	_, err := Module("test.move", `
module L {
	import 0x1.Other as Self;
}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved")
}

func TestImport_TransactionModuleIdent(t *testing.T) {
	m := mustModule(t, `
module L {
	import Transaction.Scoped;
}`)
	require.Len(t, m.Imports, 1)
	assert.Equal(t, ast.ModuleIdentTransaction, m.Imports[0].Ident.Kind)
	assert.Equal(t, "Scoped", m.Imports[0].Ident.ModuleName)
}

func TestUnpack_BareFieldShorthandBindsSameName(t *testing.T) {
	m := mustModule(t, `
module U {
	resource struct Coin { value: u64 }
	public destroy(c: Coin) {
		Coin { value } = move(c);
	}
}`)
	fn := m.Functions[0]
	cmd := fn.Body.Code.Stmts[0].Value.(*ast.StmtCommand).Cmd.Value.(*ast.CmdUnpack)
	assert.Equal(t, "Coin", cmd.Name)
	assert.Equal(t, ast.Var("value"), cmd.Bindings[ast.Field("value")])
}

func TestPack_DuplicateFieldIsRejected(t *testing.T) {
	_, err := Module("test.move", `
module U {
	resource struct Coin { value: u64 }
	public f() {
		return Coin { value: 1, value: 2 };
	}
}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate field")
}

func TestProgram_BareModuleSynthesizesEmptyMain(t *testing.T) {
	prog, err := Program("test.move", `
module Bare {
	public f() { return; }
}`)
	require.NoError(t, err)
	require.NotNil(t, prog.Script)
	require.NotNil(t, prog.Script.Main)
	assert.Equal(t, "main", prog.Script.Main.Name)
	assert.Equal(t, ast.Public, prog.Script.Main.Visibility)
}

func TestProgram_ModulesAndScriptSections(t *testing.T) {
	prog, err := Program("test.move", `
modules:
module First {
	public f() { return; }
}
script:
import 0x1.First;
main() {
	return;
}`)
	require.NoError(t, err)
	require.Len(t, prog.Modules, 1)
	assert.Equal(t, "First", prog.Modules[0].Name)
	require.Len(t, prog.Script.Imports, 1)
	assert.Equal(t, "main", prog.Script.Main.Name)
}

func TestBuiltinCall_ExistsIsGeneric(t *testing.T) {
	m := mustModule(t, `
module B {
	resource struct Coin { value: u64 }
	public f(a: address) {
		return exists<Coin>(copy(a));
	}
}`)
	fn := m.Functions[0]
	ret := fn.Body.Code.Stmts[0].Value.(*ast.StmtCommand).Cmd.Value.(*ast.CmdReturn)
	call := ret.Value.Value.(*ast.ExpList).Elems[0].Value.(*ast.ExpCall)
	builtin, ok := call.Fn.(ast.FCBuiltin)
	require.True(t, ok)
	assert.Equal(t, "exists", builtin.Name)
	require.Len(t, builtin.TypeActuals, 1)
}

func TestQualifiedFunctionCall(t *testing.T) {
	m := mustModule(t, `
module Q {
	import 0x1.Other;
	public f() {
		return Other.helper();
	}
}`)
	fn := m.Functions[0]
	ret := fn.Body.Code.Stmts[0].Value.(*ast.StmtCommand).Cmd.Value.(*ast.CmdReturn)
	call := ret.Value.Value.(*ast.ExpList).Elems[0].Value.(*ast.ExpCall)
	fc, ok := call.Fn.(ast.FCModuleFunction)
	require.True(t, ok)
	assert.Equal(t, ast.ModuleAlias("Other"), fc.Module)
	assert.Equal(t, "helper", fc.Name)
}

func TestCmd_EntryPointParsesSingleCommand(t *testing.T) {
	cmd, err := Cmd("<repl>", "x, y = (1, 2)")
	require.NoError(t, err)
	assign, ok := cmd.Value.(*ast.CmdAssign)
	require.True(t, ok)
	require.Len(t, assign.LValues, 2)
}

func TestParseError_IsFatalOnFirstProblem(t *testing.T) {
	_, err := Module("test.move", `module M { public f( }`)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.True(t, strings.Contains(pe.Error(), "expected"))
}
