// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package parser implements a single-pass, non-recovering recursive-descent
// parser for the surface syntax grammar. There is no error recovery: parsing
// stops and returns the first ParseError encountered.
//
// The public entry points (Program, Script, ScriptOrModule, Module, Cmd)
// each construct a fresh parser over the given source and drive it to EOF.
package parser

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/probelang/moveparse/internal/ast"
	"github.com/probelang/moveparse/internal/builtins"
	"github.com/probelang/moveparse/internal/lexer"
	"github.com/probelang/moveparse/internal/token"
)

// ParseError reports the first syntactic problem encountered; parsing never
// collects more than one.
type ParseError struct {
	Pos token.Position
	Msg string
}

func (e *ParseError) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

type parser struct {
	lex  *lexer.Lexer
	cur  token.Token
	peek token.Token
}

func newParser(filename, source string) *parser {
	p := &parser{lex: lexer.New(filename, source)}
	p.cur = p.lex.NextToken()
	for p.cur.Type == token.COMMENT {
		p.cur = p.lex.NextToken()
	}
	p.peek = p.lex.NextToken()
	for p.peek.Type == token.COMMENT {
		p.peek = p.lex.NextToken()
	}
	return p
}

func (p *parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
	for p.peek.Type == token.COMMENT {
		p.peek = p.lex.NextToken()
	}
}

func (p *parser) curIs(tt token.Type) bool  { return p.cur.Type == tt }
func (p *parser) peekIs(tt token.Type) bool { return p.peek.Type == tt }

func (p *parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Pos: p.cur.Pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(tt token.Type) (token.Token, error) {
	if p.cur.Type != tt {
		return token.Token{}, p.errorf("expected %s, found %s %q", tt, p.cur.Type, p.cur.Literal)
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

// startSpan/span bracket a node's consumed tokens: startSpan is read before
// the first token of the node is consumed, span is computed once the parser
// has advanced past the node's last token (so its End equals the offset of
// whatever token follows, never invented).
func (p *parser) startSpan() int        { return p.cur.Pos.Offset }
func (p *parser) span(start int) ast.Span { return ast.Span{Start: start, End: p.cur.Pos.Offset} }

// ---------------------------------------------------------------------------
// Public entry points
// ---------------------------------------------------------------------------

// Program parses a whole compilation unit: either an explicit
// "modules: ... script: ..." pair, or a single bare module (which receives a
// synthesized empty public main).
func Program(filename, source string) (*ast.Program, error) {
	p := newParser(filename, source)
	prog, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EOF); err != nil {
		return nil, err
	}
	return prog, nil
}

// Script parses a single top-level script: optional imports followed by a
// "main" function.
func Script(filename, source string) (*ast.Script, error) {
	p := newParser(filename, source)
	s, err := p.parseScript()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EOF); err != nil {
		return nil, err
	}
	return s, nil
}

// ScriptOrModule parses a single top-level unit that is either a module or a
// script, without the "modules:"/"script:" section headers.
func ScriptOrModule(filename, source string) (*ast.ScriptOrModule, error) {
	p := newParser(filename, source)
	som, err := p.parseScriptOrModule()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EOF); err != nil {
		return nil, err
	}
	return som, nil
}

// Module parses a single "module Name { ... }" declaration.
func Module(filename, source string) (*ast.Module, error) {
	p := newParser(filename, source)
	m, err := p.parseModule()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EOF); err != nil {
		return nil, err
	}
	return m, nil
}

// Cmd parses a single command, the grammar entry point used by REPL-style
// one-line evaluation. A trailing ";" is optional.
func Cmd(filename, source string) (ast.Spanned[ast.Cmd], error) {
	p := newParser(filename, source)
	cmd, err := p.parseCommand()
	if err != nil {
		return ast.Spanned[ast.Cmd]{}, err
	}
	if p.curIs(token.SEMI) {
		p.advance()
	}
	if _, err := p.expect(token.EOF); err != nil {
		return ast.Spanned[ast.Cmd]{}, err
	}
	return cmd, nil
}

// ---------------------------------------------------------------------------
// Program / script / module
// ---------------------------------------------------------------------------

func (p *parser) parseProgram() (*ast.Program, error) {
	if p.curIs(token.MODULES) {
		p.advance()
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		var mods []*ast.Module
		for !p.curIs(token.SCRIPT) {
			if p.curIs(token.EOF) {
				return nil, p.errorf("expected 'script:' section, found end of file")
			}
			m, err := p.parseModule()
			if err != nil {
				return nil, err
			}
			mods = append(mods, m)
		}
		p.advance() // consume "script"
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		script, err := p.parseScript()
		if err != nil {
			return nil, err
		}
		return &ast.Program{Modules: mods, Script: script}, nil
	}

	m, err := p.parseModule()
	if err != nil {
		return nil, err
	}
	return &ast.Program{
		Modules: []*ast.Module{m},
		Script:  &ast.Script{Main: ast.SyntheticMain()},
	}, nil
}

func (p *parser) parseScriptOrModule() (*ast.ScriptOrModule, error) {
	if p.curIs(token.MODULE) {
		m, err := p.parseModule()
		if err != nil {
			return nil, err
		}
		return &ast.ScriptOrModule{Module: m}, nil
	}
	s, err := p.parseScript()
	if err != nil {
		return nil, err
	}
	return &ast.ScriptOrModule{Script: s}, nil
}

func (p *parser) parseScript() (*ast.Script, error) {
	var imports []ast.ImportDefinition
	for p.curIs(token.IMPORT) {
		im, err := p.parseImport()
		if err != nil {
			return nil, err
		}
		imports = append(imports, im)
	}
	if _, err := p.expect(token.MAIN); err != nil {
		return nil, err
	}
	fn, err := p.parseFunctionRest(ast.Public, false, "main", nil)
	if err != nil {
		return nil, err
	}
	return &ast.Script{Imports: imports, Main: fn}, nil
}

func (p *parser) parseModule() (*ast.Module, error) {
	if _, err := p.expect(token.MODULE); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.NAME)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}

	var imports []ast.ImportDefinition
	for p.curIs(token.IMPORT) {
		im, err := p.parseImport()
		if err != nil {
			return nil, err
		}
		imports = append(imports, im)
	}

	var structs []*ast.StructDefinition
	var functions []*ast.Function
	for !p.curIs(token.RBRACE) {
		if p.curIs(token.EOF) {
			return nil, p.errorf("unterminated module body")
		}
		if p.curIs(token.STRUCT) || p.curIs(token.RESOURCE) ||
			(p.curIs(token.NATIVE) && (p.peekIs(token.STRUCT) || p.peekIs(token.RESOURCE))) {
			if len(functions) > 0 {
				return nil, p.errorf("struct declarations must precede function declarations")
			}
			sd, err := p.parseStructDef()
			if err != nil {
				return nil, err
			}
			structs = append(structs, sd)
			continue
		}
		fn, err := p.parseFunctionDef()
		if err != nil {
			return nil, err
		}
		functions = append(functions, fn)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}

	return &ast.Module{Name: nameTok.Literal, Imports: imports, Structs: structs, Functions: functions}, nil
}

// ---------------------------------------------------------------------------
// Imports
// ---------------------------------------------------------------------------

func (p *parser) parseImport() (ast.ImportDefinition, error) {
	if _, err := p.expect(token.IMPORT); err != nil {
		return ast.ImportDefinition{}, err
	}
	ident, err := p.parseModuleIdentFull()
	if err != nil {
		return ast.ImportDefinition{}, err
	}
	var alias *ast.ModuleName
	if p.curIs(token.AS) {
		p.advance()
		aliasTok, err := p.expect(token.NAME)
		if err != nil {
			return ast.ImportDefinition{}, err
		}
		if aliasTok.Literal == token.ReservedSelfAlias {
			return ast.ImportDefinition{}, p.errorf("%q is reserved and cannot be used as an import alias", token.ReservedSelfAlias)
		}
		a := ast.ModuleName(aliasTok.Literal)
		alias = &a
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return ast.ImportDefinition{}, err
	}
	return ast.ImportDefinition{Ident: ident, Alias: alias}, nil
}

func (p *parser) parseModuleIdentFull() (ast.ModuleIdent, error) {
	if p.curIs(token.ADDRESS) {
		addrTok := p.cur
		p.advance()
		if _, err := p.expect(token.DOT); err != nil {
			return ast.ModuleIdent{}, err
		}
		nameTok, err := p.expect(token.NAME)
		if err != nil {
			return ast.ModuleIdent{}, err
		}
		addr, err := decodeAddress(addrTok.Literal)
		if err != nil {
			return ast.ModuleIdent{}, p.wrapLitErr(addrTok.Pos, err)
		}
		return ast.ModuleIdent{Kind: ast.ModuleIdentQualified, Address: addr, ModuleName: nameTok.Literal}, nil
	}
	if p.curIs(token.NAME) && p.cur.Literal == token.TransactionModuleIdent {
		p.advance()
		if _, err := p.expect(token.DOT); err != nil {
			return ast.ModuleIdent{}, err
		}
		nameTok, err := p.expect(token.NAME)
		if err != nil {
			return ast.ModuleIdent{}, err
		}
		return ast.ModuleIdent{Kind: ast.ModuleIdentTransaction, ModuleName: nameTok.Literal}, nil
	}
	return ast.ModuleIdent{}, p.errorf("expected an account address or %q, found %s %q", token.TransactionModuleIdent, p.cur.Type, p.cur.Literal)
}

func (p *parser) wrapLitErr(pos token.Position, err error) error {
	return &ParseError{Pos: pos, Msg: err.Error()}
}

// decodeAddress decodes a "0x..."/"0X..." literal MSB-first into a
// zero-padded 32-byte address. At least one hex digit is required. An odd
// number of hex digits is padded with a leading zero nibble; more than 64 hex
// digits (32 bytes) is an overflow.
func decodeAddress(lit string) (ast.AddressBytes, error) {
	var out ast.AddressBytes
	digits := lit[2:]
	if len(digits) == 0 {
		return out, fmt.Errorf("address literal %q has no hex digits", lit)
	}
	if len(digits)%2 != 0 {
		digits = "0" + digits
	}
	if len(digits) > 64 {
		return out, fmt.Errorf("address literal %q exceeds 32 bytes", lit)
	}
	raw, err := hex.DecodeString(digits)
	if err != nil {
		return out, fmt.Errorf("invalid address literal %q: %w", lit, err)
	}
	copy(out[32-len(raw):], raw)
	return out, nil
}

// ---------------------------------------------------------------------------
// Structs
// ---------------------------------------------------------------------------

func (p *parser) parseStructDef() (*ast.StructDefinition, error) {
	native := false
	if p.curIs(token.NATIVE) {
		native = true
		p.advance()
	}
	isResource := false
	if p.curIs(token.RESOURCE) {
		isResource = true
		p.advance()
		// Both "resource Name" and "resource struct Name" are accepted.
		if p.curIs(token.STRUCT) {
			p.advance()
		}
	} else if _, err := p.expect(token.STRUCT); err != nil {
		return nil, err
	}

	name, typeFormals, err := p.parseDeclName()
	if err != nil {
		return nil, err
	}

	if native {
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.StructDefinition{IsResource: isResource, Native: true, Name: name, TypeFormals: typeFormals}, nil
	}

	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var fields []ast.FieldDefinition
	seen := map[string]bool{}
	for !p.curIs(token.RBRACE) {
		fieldTok, err := p.expect(token.NAME)
		if err != nil {
			return nil, err
		}
		if seen[fieldTok.Literal] {
			return nil, p.errorf("duplicate field %q in struct %q", fieldTok.Literal, name)
		}
		seen[fieldTok.Literal] = true
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.FieldDefinition{Name: ast.Field(fieldTok.Literal), Type: ty})
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.StructDefinition{IsResource: isResource, Name: name, TypeFormals: typeFormals, Fields: fields}, nil
}

// parseDeclName parses a declaration name that may open a type-formals list
// via the NameBeginTy token.
func (p *parser) parseDeclName() (string, []ast.TypeFormal, error) {
	if p.curIs(token.NAME_BEGIN_TY) {
		name := p.cur.Literal
		p.advance()
		formals, err := p.parseTypeFormalsList()
		if err != nil {
			return "", nil, err
		}
		return name, formals, nil
	}
	tok, err := p.expect(token.NAME)
	if err != nil {
		return "", nil, err
	}
	return tok.Literal, nil, nil
}

func (p *parser) parseTypeFormalsList() ([]ast.TypeFormal, error) {
	var formals []ast.TypeFormal
	for {
		varTok, err := p.expect(token.NAME)
		if err != nil {
			return nil, err
		}
		kind := ast.KindAll
		if p.curIs(token.COLON) {
			p.advance()
			kind, err = p.parseKind()
			if err != nil {
				return nil, err
			}
		}
		formals = append(formals, ast.TypeFormal{Var: ast.TypeVar(varTok.Literal), Kind: kind})
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RANGLE); err != nil {
		return nil, err
	}
	return formals, nil
}

func (p *parser) parseKind() (ast.Kind, error) {
	switch {
	case p.curIs(token.RESOURCE):
		p.advance()
		return ast.KindResource, nil
	case p.curIs(token.UNRESTRICTED):
		p.advance()
		return ast.KindUnrestricted, nil
	default:
		return ast.KindAll, p.errorf("expected 'resource' or 'unrestricted', found %s %q", p.cur.Type, p.cur.Literal)
	}
}

func (p *parser) parseTypeActualsList() ([]ast.Type, error) {
	var actuals []ast.Type
	for !p.curIs(token.RANGLE) {
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		actuals = append(actuals, ty)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RANGLE); err != nil {
		return nil, err
	}
	return actuals, nil
}

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

func (p *parser) parseType() (ast.Type, error) {
	switch {
	case p.curIs(token.ADDRESS_TY):
		p.advance()
		return ast.TyAddress{}, nil
	case p.curIs(token.U64_TY):
		p.advance()
		return ast.TyU64{}, nil
	case p.curIs(token.BOOL_TY):
		p.advance()
		return ast.TyBool{}, nil
	case p.curIs(token.BYTEARRAY_TY):
		p.advance()
		return ast.TyByteArray{}, nil
	case p.curIs(token.AMP):
		p.advance()
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.TyReference{IsMut: false, Inner: inner}, nil
	case p.curIs(token.AMPMUT):
		p.advance()
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.TyReference{IsMut: true, Inner: inner}, nil
	case p.curIs(token.NAME_BEGIN_TY):
		name := p.cur.Literal
		p.advance()
		actuals, err := p.parseTypeActualsList()
		if err != nil {
			return nil, err
		}
		return &ast.TyStruct{Ident: ast.QualifiedStructIdent{Module: ast.ModuleAlias(token.ReservedSelfAlias), Name: name}, Actuals: actuals}, nil
	case p.curIs(token.NAME):
		name := p.cur.Literal
		p.advance()
		if p.curIs(token.DOT) {
			p.advance()
			if p.curIs(token.NAME_BEGIN_TY) {
				structName := p.cur.Literal
				p.advance()
				actuals, err := p.parseTypeActualsList()
				if err != nil {
					return nil, err
				}
				return &ast.TyStruct{Ident: ast.QualifiedStructIdent{Module: ast.ModuleAlias(name), Name: structName}, Actuals: actuals}, nil
			}
			structTok, err := p.expect(token.NAME)
			if err != nil {
				return nil, err
			}
			return &ast.TyStruct{Ident: ast.QualifiedStructIdent{Module: ast.ModuleAlias(name), Name: structTok.Literal}}, nil
		}
		// An unqualified, non-generic bare name is syntactically ambiguous
		// between a type-parameter reference and a non-generic struct name;
		// resolving that ambiguity requires a symbol table and is left to
		// the semantic-analysis stage that consumes this tree.
		return &ast.TyParameter{Var: ast.TypeVar(name)}, nil
	default:
		return nil, p.errorf("expected a type, found %s %q", p.cur.Type, p.cur.Literal)
	}
}

func (p *parser) parseReturnTypeList() ([]ast.Type, error) {
	first, err := p.parseType()
	if err != nil {
		return nil, err
	}
	rets := []ast.Type{first}
	for p.curIs(token.STAR) {
		p.advance()
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		rets = append(rets, t)
	}
	return rets, nil
}

func (p *parser) parseNameList() ([]string, error) {
	var names []string
	for {
		t, err := p.expect(token.NAME)
		if err != nil {
			return nil, err
		}
		names = append(names, t.Literal)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return names, nil
}

// ---------------------------------------------------------------------------
// Functions
// ---------------------------------------------------------------------------

func (p *parser) parseFunctionDef() (*ast.Function, error) {
	vis := ast.Internal
	if p.curIs(token.PUBLIC) {
		vis = ast.Public
		p.advance()
	}
	native := false
	if p.curIs(token.NATIVE) {
		native = true
		p.advance()
	}
	name, typeFormals, err := p.parseDeclName()
	if err != nil {
		return nil, err
	}
	return p.parseFunctionRest(vis, native, name, typeFormals)
}

func (p *parser) parseFunctionRest(vis ast.Visibility, native bool, name string, typeFormals []ast.TypeFormal) (*ast.Function, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	var rets []ast.Type
	if p.curIs(token.COLON) {
		p.advance()
		rets, err = p.parseReturnTypeList()
		if err != nil {
			return nil, err
		}
	}
	var acquires []string
	if p.curIs(token.ACQUIRES) {
		p.advance()
		acquires, err = p.parseNameList()
		if err != nil {
			return nil, err
		}
	}

	if native {
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.Function{
			Visibility: vis, Name: name, TypeFormals: typeFormals, Args: params,
			Return: rets, Acquires: acquires, Body: ast.FunctionBody{Native: true},
		}, nil
	}

	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var locals []ast.LocalDecl
	for p.curIs(token.LET) {
		p.advance()
		nameTok, err := p.expect(token.NAME)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		locals = append(locals, ast.LocalDecl{Name: ast.Var(nameTok.Literal), Type: ty})
	}
	var stmts []ast.Spanned[ast.Statement]
	for !p.curIs(token.RBRACE) {
		if p.curIs(token.EOF) {
			return nil, p.errorf("unterminated function body")
		}
		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}

	return &ast.Function{
		Visibility: vis, Name: name, TypeFormals: typeFormals, Args: params, Return: rets,
		Acquires: acquires, Body: ast.FunctionBody{Locals: locals, Code: ast.Block{Stmts: stmts}},
	}, nil
}

func (p *parser) parseParamList() ([]ast.Param, error) {
	var params []ast.Param
	for !p.curIs(token.RPAREN) {
		nameTok, err := p.expect(token.NAME)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: ast.Var(nameTok.Literal), Type: ty})
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return params, nil
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func (p *parser) parseBlock() (ast.Block, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return ast.Block{}, err
	}
	var stmts []ast.Spanned[ast.Statement]
	for !p.curIs(token.RBRACE) {
		if p.curIs(token.EOF) {
			return ast.Block{}, p.errorf("unterminated block")
		}
		st, err := p.parseStatement()
		if err != nil {
			return ast.Block{}, err
		}
		stmts = append(stmts, st)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return ast.Block{}, err
	}
	return ast.Block{Stmts: stmts}, nil
}

func (p *parser) parseStatement() (ast.Spanned[ast.Statement], error) {
	start := p.startSpan()
	switch {
	case p.curIs(token.IF):
		p.advance()
		if _, err := p.expect(token.LPAREN); err != nil {
			return ast.Spanned[ast.Statement]{}, err
		}
		cond, err := p.parseExpr()
		if err != nil {
			return ast.Spanned[ast.Statement]{}, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return ast.Spanned[ast.Statement]{}, err
		}
		thenBlk, err := p.parseBlock()
		if err != nil {
			return ast.Spanned[ast.Statement]{}, err
		}
		var elseBlk *ast.Block
		if p.curIs(token.ELSE) {
			p.advance()
			b, err := p.parseBlock()
			if err != nil {
				return ast.Spanned[ast.Statement]{}, err
			}
			elseBlk = &b
		}
		return ast.Sp(p.span(start), ast.Statement(&ast.StmtIfElse{Cond: cond, Then: thenBlk, Else: elseBlk})), nil

	case p.curIs(token.WHILE):
		p.advance()
		if _, err := p.expect(token.LPAREN); err != nil {
			return ast.Spanned[ast.Statement]{}, err
		}
		cond, err := p.parseExpr()
		if err != nil {
			return ast.Spanned[ast.Statement]{}, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return ast.Spanned[ast.Statement]{}, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return ast.Spanned[ast.Statement]{}, err
		}
		return ast.Sp(p.span(start), ast.Statement(&ast.StmtWhile{Cond: cond, Body: body})), nil

	case p.curIs(token.LOOP):
		p.advance()
		body, err := p.parseBlock()
		if err != nil {
			return ast.Spanned[ast.Statement]{}, err
		}
		return ast.Sp(p.span(start), ast.Statement(&ast.StmtLoop{Body: body})), nil

	case p.curIs(token.SEMI):
		p.advance()
		return ast.Sp(p.span(start), ast.Statement(ast.StmtEmpty{})), nil

	case p.curIs(token.ASSERT):
		return p.parseAssertStatement(start)

	default:
		cmd, err := p.parseCommand()
		if err != nil {
			return ast.Spanned[ast.Statement]{}, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return ast.Spanned[ast.Statement]{}, err
		}
		return ast.Sp(p.span(start), ast.Statement(&ast.StmtCommand{Cmd: cmd})), nil
	}
}

// parseAssertStatement desugars "assert(cond, code);" into
// "if (!cond) { abort code; }", reusing cond's and code's own spans rather
// than fabricating new ones for the sub-expressions it did not itself parse.
func (p *parser) parseAssertStatement(start int) (ast.Spanned[ast.Statement], error) {
	p.advance() // "assert"
	if _, err := p.expect(token.LPAREN); err != nil {
		return ast.Spanned[ast.Statement]{}, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return ast.Spanned[ast.Statement]{}, err
	}
	if _, err := p.expect(token.COMMA); err != nil {
		return ast.Spanned[ast.Statement]{}, err
	}
	code, err := p.parseExpr()
	if err != nil {
		return ast.Spanned[ast.Statement]{}, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return ast.Spanned[ast.Statement]{}, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return ast.Spanned[ast.Statement]{}, err
	}

	notCond := ast.Sp(cond.Span, ast.Exp(&ast.ExpUnary{Op: ast.OpNot, Inner: cond}))
	abortCmd := ast.Sp(code.Span, ast.Cmd(&ast.CmdAbort{ErrorCode: &code}))
	abortStmt := ast.Sp(code.Span, ast.Statement(&ast.StmtCommand{Cmd: abortCmd}))
	thenBlk := ast.Block{Stmts: []ast.Spanned[ast.Statement]{abortStmt}}

	return ast.Sp(p.span(start), ast.Statement(&ast.StmtIfElse{Cond: notCond, Then: thenBlk})), nil
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func (p *parser) parseCommand() (ast.Spanned[ast.Cmd], error) {
	start := p.startSpan()
	switch {
	case p.curIs(token.RETURN):
		p.advance()
		elemsStart := p.startSpan()
		var elems []ast.Spanned[ast.Exp]
		if !p.curIs(token.SEMI) {
			var err error
			elems, err = p.parseExprList()
			if err != nil {
				return ast.Spanned[ast.Cmd]{}, err
			}
		}
		val := ast.Sp(ast.Span{Start: elemsStart, End: p.startSpan()}, ast.Exp(&ast.ExpList{Elems: elems}))
		return ast.Sp(p.span(start), ast.Cmd(&ast.CmdReturn{Value: val})), nil

	case p.curIs(token.CONTINUE):
		p.advance()
		return ast.Sp(p.span(start), ast.Cmd(ast.CmdContinue{})), nil

	case p.curIs(token.BREAK):
		p.advance()
		return ast.Sp(p.span(start), ast.Cmd(ast.CmdBreak{})), nil

	case p.curIs(token.ABORT):
		p.advance()
		var ec *ast.Spanned[ast.Exp]
		if !p.curIs(token.SEMI) {
			e, err := p.parseExpr()
			if err != nil {
				return ast.Spanned[ast.Cmd]{}, err
			}
			ec = &e
		}
		return ast.Sp(p.span(start), ast.Cmd(&ast.CmdAbort{ErrorCode: ec})), nil

	case (p.curIs(token.NAME_BEGIN_TY) && !builtins.IsBuiltin(p.cur.Literal)) || (p.curIs(token.NAME) && p.peekIs(token.LBRACE)):
		return p.parseUnpackCommand(start)

	default:
		return p.parseAssignOrExprCommand(start)
	}
}

func (p *parser) parseUnpackCommand(start int) (ast.Spanned[ast.Cmd], error) {
	name, actuals, err := p.parseDeclNameActuals()
	if err != nil {
		return ast.Spanned[ast.Cmd]{}, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return ast.Spanned[ast.Cmd]{}, err
	}
	bindings := map[ast.Field]ast.Var{}
	for !p.curIs(token.RBRACE) {
		fieldTok, err := p.expect(token.NAME)
		if err != nil {
			return ast.Spanned[ast.Cmd]{}, err
		}
		field := ast.Field(fieldTok.Literal)
		varName := ast.Var(fieldTok.Literal) // bare-field shorthand: binds to a local of the same name
		if p.curIs(token.COLON) {
			p.advance()
			vTok, err := p.expect(token.NAME)
			if err != nil {
				return ast.Spanned[ast.Cmd]{}, err
			}
			varName = ast.Var(vTok.Literal)
		}
		if _, dup := bindings[field]; dup {
			return ast.Spanned[ast.Cmd]{}, p.errorf("duplicate field %q in unpack pattern", field)
		}
		bindings[field] = varName
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return ast.Spanned[ast.Cmd]{}, err
	}
	if _, err := p.expect(token.EQ); err != nil {
		return ast.Spanned[ast.Cmd]{}, err
	}
	rhs, err := p.parseExpr()
	if err != nil {
		return ast.Spanned[ast.Cmd]{}, err
	}
	return ast.Sp(p.span(start), ast.Cmd(&ast.CmdUnpack{Name: name, Actuals: actuals, Bindings: bindings, Rhs: rhs})), nil
}

// parseDeclNameActuals parses a struct-pattern name, consuming a
// NameBeginTy-opened type-actuals list if present (no type-formals kinds at
// a use site, unlike parseDeclName's declaration form).
func (p *parser) parseDeclNameActuals() (string, []ast.Type, error) {
	if p.curIs(token.NAME_BEGIN_TY) {
		name := p.cur.Literal
		p.advance()
		actuals, err := p.parseTypeActualsList()
		if err != nil {
			return "", nil, err
		}
		return name, actuals, nil
	}
	tok, err := p.expect(token.NAME)
	if err != nil {
		return "", nil, err
	}
	return tok.Literal, nil, nil
}

func (p *parser) parseAssignOrExprCommand(start int) (ast.Spanned[ast.Cmd], error) {
	looksLikeAssign := p.curIs(token.STAR) || p.curIs(token.UNDERSCORE) ||
		(p.curIs(token.NAME) && (p.peekIs(token.EQ) || p.peekIs(token.COMMA)))

	if looksLikeAssign {
		var lvs []ast.LValue
		for {
			lv, err := p.parseLValue()
			if err != nil {
				return ast.Spanned[ast.Cmd]{}, err
			}
			lvs = append(lvs, lv)
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(token.EQ); err != nil {
			return ast.Spanned[ast.Cmd]{}, err
		}
		rhs, err := p.parseExpr()
		if err != nil {
			return ast.Spanned[ast.Cmd]{}, err
		}
		return ast.Sp(p.span(start), ast.Cmd(&ast.CmdAssign{LValues: lvs, Rhs: rhs})), nil
	}

	e, err := p.parseExpr()
	if err != nil {
		return ast.Spanned[ast.Cmd]{}, err
	}
	return ast.Sp(p.span(start), ast.Cmd(&ast.CmdExp{Value: e})), nil
}

func (p *parser) parseLValue() (ast.LValue, error) {
	switch {
	case p.curIs(token.STAR):
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.LValueMutate{Inner: e}, nil
	case p.curIs(token.UNDERSCORE):
		p.advance()
		return ast.LValuePop{}, nil
	default:
		tok, err := p.expect(token.NAME)
		if err != nil {
			return nil, err
		}
		return ast.LValueVar{Name: ast.Var(tok.Literal)}, nil
	}
}

// ---------------------------------------------------------------------------
// Expressions: precedence ladder, loosest to tightest
// ---------------------------------------------------------------------------

func (p *parser) parseExpr() (ast.Spanned[ast.Exp], error) { return p.parseComparison() }

func (p *parser) parseComparison() (ast.Spanned[ast.Exp], error) {
	left, err := p.parseLogicalOr()
	if err != nil {
		return ast.Spanned[ast.Exp]{}, err
	}
	for {
		var op ast.BinOp
		switch p.cur.Type {
		case token.EQEQ:
			op = ast.OpEq
		case token.NEQ:
			op = ast.OpNeq
		case token.LANGLE:
			op = ast.OpLt
		case token.RANGLE:
			op = ast.OpGt
		case token.LE:
			op = ast.OpLe
		case token.GE:
			op = ast.OpGe
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseLogicalOr()
		if err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		left = ast.Sp(ast.Join(left.Span, right.Span), ast.Exp(&ast.ExpBinop{Left: left, Op: op, Right: right}))
	}
}

func (p *parser) parseLogicalOr() (ast.Spanned[ast.Exp], error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return ast.Spanned[ast.Exp]{}, err
	}
	for p.curIs(token.OROR) {
		p.advance()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		left = ast.Sp(ast.Join(left.Span, right.Span), ast.Exp(&ast.ExpBinop{Left: left, Op: ast.OpOr, Right: right}))
	}
	return left, nil
}

func (p *parser) parseLogicalAnd() (ast.Spanned[ast.Exp], error) {
	left, err := p.parseBitXor()
	if err != nil {
		return ast.Spanned[ast.Exp]{}, err
	}
	for p.curIs(token.ANDAND) {
		p.advance()
		right, err := p.parseBitXor()
		if err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		left = ast.Sp(ast.Join(left.Span, right.Span), ast.Exp(&ast.ExpBinop{Left: left, Op: ast.OpAnd, Right: right}))
	}
	return left, nil
}

func (p *parser) parseBitXor() (ast.Spanned[ast.Exp], error) {
	left, err := p.parseBitOr()
	if err != nil {
		return ast.Spanned[ast.Exp]{}, err
	}
	for p.curIs(token.CARET) {
		p.advance()
		right, err := p.parseBitOr()
		if err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		left = ast.Sp(ast.Join(left.Span, right.Span), ast.Exp(&ast.ExpBinop{Left: left, Op: ast.OpXor, Right: right}))
	}
	return left, nil
}

func (p *parser) parseBitOr() (ast.Spanned[ast.Exp], error) {
	left, err := p.parseBitAnd()
	if err != nil {
		return ast.Spanned[ast.Exp]{}, err
	}
	for p.curIs(token.PIPE) {
		p.advance()
		right, err := p.parseBitAnd()
		if err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		left = ast.Sp(ast.Join(left.Span, right.Span), ast.Exp(&ast.ExpBinop{Left: left, Op: ast.OpBitOr, Right: right}))
	}
	return left, nil
}

func (p *parser) parseBitAnd() (ast.Spanned[ast.Exp], error) {
	left, err := p.parseAdditive()
	if err != nil {
		return ast.Spanned[ast.Exp]{}, err
	}
	for p.curIs(token.AMP) {
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		left = ast.Sp(ast.Join(left.Span, right.Span), ast.Exp(&ast.ExpBinop{Left: left, Op: ast.OpBitAnd, Right: right}))
	}
	return left, nil
}

func (p *parser) parseAdditive() (ast.Spanned[ast.Exp], error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return ast.Spanned[ast.Exp]{}, err
	}
	for {
		var op ast.BinOp
		switch p.cur.Type {
		case token.PLUS:
			op = ast.OpAdd
		case token.MINUS:
			op = ast.OpSub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		left = ast.Sp(ast.Join(left.Span, right.Span), ast.Exp(&ast.ExpBinop{Left: left, Op: op, Right: right}))
	}
}

func (p *parser) parseMultiplicative() (ast.Spanned[ast.Exp], error) {
	left, err := p.parseUnary()
	if err != nil {
		return ast.Spanned[ast.Exp]{}, err
	}
	for {
		var op ast.BinOp
		switch p.cur.Type {
		case token.STAR:
			op = ast.OpMul
		case token.SLASH:
			op = ast.OpDiv
		case token.PERCENT:
			op = ast.OpMod
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		left = ast.Sp(ast.Join(left.Span, right.Span), ast.Exp(&ast.ExpBinop{Left: left, Op: op, Right: right}))
	}
}

func (p *parser) parseUnary() (ast.Spanned[ast.Exp], error) {
	start := p.startSpan()
	switch {
	case p.curIs(token.BANG):
		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		return ast.Sp(p.span(start), ast.Exp(&ast.ExpUnary{Op: ast.OpNot, Inner: inner})), nil

	case p.curIs(token.STAR):
		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		return ast.Sp(p.span(start), ast.Exp(&ast.ExpDereference{Inner: inner})), nil

	case p.curIs(token.AMP):
		p.advance()
		return p.parseBorrow(start, false)

	case p.curIs(token.AMPMUT):
		p.advance()
		return p.parseBorrow(start, true)

	case p.curIs(token.MOVE):
		p.advance()
		if _, err := p.expect(token.LPAREN); err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		nameTok, err := p.expect(token.NAME)
		if err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		return ast.Sp(p.span(start), ast.Exp(ast.ExpMove{Name: ast.Var(nameTok.Literal)})), nil

	case p.curIs(token.COPY):
		p.advance()
		if _, err := p.expect(token.LPAREN); err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		nameTok, err := p.expect(token.NAME)
		if err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		return ast.Sp(p.span(start), ast.Exp(ast.ExpCopy{Name: ast.Var(nameTok.Literal)})), nil

	default:
		return p.parsePrimary()
	}
}

// parseBorrow parses the operand of "&"/"&mut ": a local, optionally
// followed by one or more ".field" projections.
func (p *parser) parseBorrow(start int, isMut bool) (ast.Spanned[ast.Exp], error) {
	nameTok, err := p.expect(token.NAME)
	if err != nil {
		return ast.Spanned[ast.Exp]{}, err
	}
	cur := ast.Sp(p.span(start), ast.Exp(ast.ExpBorrowLocal{IsMut: isMut, Name: ast.Var(nameTok.Literal)}))
	for p.curIs(token.DOT) {
		p.advance()
		fieldTok, err := p.expect(token.NAME)
		if err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		cur = ast.Sp(p.span(start), ast.Exp(&ast.ExpBorrow{IsMut: isMut, Inner: cur, Field: ast.Field(fieldTok.Literal)}))
	}
	return cur, nil
}

func (p *parser) parsePrimary() (ast.Spanned[ast.Exp], error) {
	start := p.startSpan()
	switch {
	case p.curIs(token.U64):
		lit := p.cur.Literal
		pos := p.cur.Pos
		p.advance()
		v, err := strconv.ParseUint(lit, 10, 64)
		if err != nil {
			return ast.Spanned[ast.Exp]{}, p.wrapLitErr(pos, fmt.Errorf("integer literal %q out of range for u64", lit))
		}
		return ast.Sp(p.span(start), ast.Exp(ast.ExpValue{Val: ast.ValU64{Value: v}})), nil

	case p.curIs(token.TRUE):
		p.advance()
		return ast.Sp(p.span(start), ast.Exp(ast.ExpValue{Val: ast.ValBool{Value: true}})), nil

	case p.curIs(token.FALSE):
		p.advance()
		return ast.Sp(p.span(start), ast.Exp(ast.ExpValue{Val: ast.ValBool{Value: false}})), nil

	case p.curIs(token.ADDRESS):
		lit := p.cur.Literal
		pos := p.cur.Pos
		p.advance()
		addr, err := decodeAddress(lit)
		if err != nil {
			return ast.Spanned[ast.Exp]{}, p.wrapLitErr(pos, err)
		}
		return ast.Sp(p.span(start), ast.Exp(ast.ExpValue{Val: ast.ValAddress{Value: addr}})), nil

	case p.curIs(token.BYTE_ARRAY):
		lit := p.cur.Literal
		pos := p.cur.Pos
		p.advance()
		if len(lit)%2 != 0 {
			return ast.Spanned[ast.Exp]{}, p.wrapLitErr(pos, fmt.Errorf("byte array literal has an odd number of hex digits"))
		}
		bs, err := hex.DecodeString(lit)
		if err != nil {
			return ast.Spanned[ast.Exp]{}, p.wrapLitErr(pos, fmt.Errorf("invalid byte array literal: %w", err))
		}
		return ast.Sp(p.span(start), ast.Exp(ast.ExpValue{Val: ast.ValByteArray{Value: bs}})), nil

	case p.curIs(token.LPAREN):
		p.advance()
		if p.curIs(token.RPAREN) {
			p.advance()
			return ast.Sp(p.span(start), ast.Exp(&ast.ExpList{})), nil
		}
		first, err := p.parseExpr()
		if err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		if p.curIs(token.COMMA) {
			elems := []ast.Spanned[ast.Exp]{first}
			for p.curIs(token.COMMA) {
				p.advance()
				e, err := p.parseExpr()
				if err != nil {
					return ast.Spanned[ast.Exp]{}, err
				}
				elems = append(elems, e)
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return ast.Spanned[ast.Exp]{}, err
			}
			return ast.Sp(p.span(start), ast.Exp(&ast.ExpList{Elems: elems})), nil
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		return first, nil

	case p.curIs(token.NAME), p.curIs(token.NAME_BEGIN_TY):
		return p.parseNameExpr(start)

	default:
		return ast.Spanned[ast.Exp]{}, p.errorf("expected an expression, found %s %q", p.cur.Type, p.cur.Literal)
	}
}

// parseNameExpr parses everything that begins with a (possibly generic,
// possibly module-qualified) identifier: a qualified call, a struct pack
// literal, or a call to a builtin or same-module function.
func (p *parser) parseNameExpr(start int) (ast.Spanned[ast.Exp], error) {
	name, typeActuals, generic, err := p.parseNameHead()
	if err != nil {
		return ast.Spanned[ast.Exp]{}, err
	}

	if !generic && p.curIs(token.DOT) {
		p.advance()
		fname, fActuals, _, err := p.parseNameHead()
		if err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		if _, err := p.expect(token.LPAREN); err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		arg, err := p.parseArgList()
		if err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		fc := ast.FCModuleFunction{Module: ast.ModuleAlias(name), Name: fname, TypeActuals: fActuals}
		return ast.Sp(p.span(start), ast.Exp(&ast.ExpCall{Fn: fc, Arg: arg})), nil
	}

	if p.curIs(token.LBRACE) {
		p.advance()
		fields := map[ast.Field]ast.Spanned[ast.Exp]{}
		for !p.curIs(token.RBRACE) {
			fieldTok, err := p.expect(token.NAME)
			if err != nil {
				return ast.Spanned[ast.Exp]{}, err
			}
			if _, err := p.expect(token.COLON); err != nil {
				return ast.Spanned[ast.Exp]{}, err
			}
			val, err := p.parseExpr()
			if err != nil {
				return ast.Spanned[ast.Exp]{}, err
			}
			field := ast.Field(fieldTok.Literal)
			if _, dup := fields[field]; dup {
				return ast.Spanned[ast.Exp]{}, p.errorf("duplicate field %q in struct literal", field)
			}
			fields[field] = val
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(token.RBRACE); err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		return ast.Sp(p.span(start), ast.Exp(&ast.ExpPack{Name: name, Actuals: typeActuals, Fields: fields})), nil
	}

	if p.curIs(token.LPAREN) {
		p.advance()
		arg, err := p.parseArgList()
		if err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		var fc ast.FunctionCall
		if builtins.IsBuiltin(name) {
			if typeActuals != nil && !builtins.IsGeneric(builtins.Name(name)) {
				return ast.Spanned[ast.Exp]{}, &ParseError{Pos: p.cur.Pos, Msg: fmt.Sprintf("builtin %q does not take type arguments", name)}
			}
			fc = ast.FCBuiltin{Name: name, TypeActuals: typeActuals}
		} else {
			fc = ast.FCModuleFunction{Module: ast.ModuleAlias(token.ReservedSelfAlias), Name: name, TypeActuals: typeActuals}
		}
		return ast.Sp(p.span(start), ast.Exp(&ast.ExpCall{Fn: fc, Arg: arg})), nil
	}

	return ast.Spanned[ast.Exp]{}, p.errorf("expected '(' or '{' after %q", name)
}

// parseNameHead consumes one NAME or NAME_BEGIN_TY (with its type-actuals
// list), reporting whether it opened a generic list.
func (p *parser) parseNameHead() (string, []ast.Type, bool, error) {
	if p.curIs(token.NAME_BEGIN_TY) {
		name := p.cur.Literal
		p.advance()
		actuals, err := p.parseTypeActualsList()
		if err != nil {
			return "", nil, false, err
		}
		return name, actuals, true, nil
	}
	tok, err := p.expect(token.NAME)
	if err != nil {
		return "", nil, false, err
	}
	return tok.Literal, nil, false, nil
}

func (p *parser) parseArgList() (ast.Spanned[ast.Exp], error) {
	start := p.startSpan()
	var elems []ast.Spanned[ast.Exp]
	for !p.curIs(token.RPAREN) {
		e, err := p.parseExpr()
		if err != nil {
			return ast.Spanned[ast.Exp]{}, err
		}
		elems = append(elems, e)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return ast.Sp(ast.Span{Start: start, End: p.startSpan()}, ast.Exp(&ast.ExpList{Elems: elems})), nil
}

func (p *parser) parseExprList() ([]ast.Spanned[ast.Exp], error) {
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	elems := []ast.Spanned[ast.Exp]{first}
	for p.curIs(token.COMMA) {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	return elems, nil
}
