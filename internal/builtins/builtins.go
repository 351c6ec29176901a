// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package builtins enumerates the reserved builtin function names the
// parser recognizes as FCBuiltin call targets rather than module-qualified
// user functions. These are storage and sender primitives operating on the
// global resource heap; none of them resolve through an import.
package builtins

// Name identifies one reserved builtin.
type Name string

const (
	MoveFrom       Name = "move_from"
	MoveToSender   Name = "move_to_sender"
	BorrowGlobal   Name = "borrow_global"
	BorrowGlobalMut Name = "borrow_global_mut"
	Exists         Name = "exists"
	GetTxnSender   Name = "get_txn_sender"
)

// Generic records whether a builtin carries a type-actuals list, e.g.
// `exists<T>(addr)` / `move_from<T>(addr)`.
var generic = map[Name]bool{
	MoveFrom:        true,
	MoveToSender:    true,
	BorrowGlobal:    true,
	BorrowGlobalMut: true,
	Exists:          true,
	GetTxnSender:    false,
}

// IsBuiltin reports whether ident names a reserved builtin.
func IsBuiltin(ident string) bool {
	_, ok := generic[Name(ident)]
	return ok
}

// IsGeneric reports whether the named builtin takes a type-actuals list.
// Panics if name is not a known builtin; callers must check IsBuiltin first.
func IsGeneric(name Name) bool {
	g, ok := generic[name]
	if !ok {
		panic("builtins: unknown builtin " + string(name))
	}
	return g
}
