// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package cliutil holds small terminal-output helpers shared by the CLI
// subcommands: colorized diagnostics and a color-capable stdout writer.
package cliutil

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Stdout returns an io.Writer that renders ANSI color sequences correctly on
// Windows consoles and passes them through unmodified elsewhere.
func Stdout() io.Writer {
	return colorable.NewColorableStdout()
}

// ColorEnabled reports whether f looks like an interactive terminal that
// should receive ANSI color codes.
func ColorEnabled(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var (
	errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	posLabel   = color.New(color.FgCyan).SprintFunc()
)

// PrintParseError writes a single-line, position-prefixed diagnostic in the
// style "<pos>: error: <message>".
func PrintParseError(w io.Writer, pos fmt.Stringer, msg string) {
	fmt.Fprintf(w, "%s: %s %s\n", posLabel(pos.String()), errorLabel("error:"), msg)
}
