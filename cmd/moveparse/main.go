// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Command moveparse is the CLI front end for the surface-syntax parser:
// token/AST dumps, a one-line REPL, a directory watcher that reparses on
// save, and an HTTP parse service.
package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/holiman/uint256"
	"github.com/olekukonko/tablewriter"
	"github.com/peterh/liner"
	"github.com/rjeczalik/notify"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/probelang/moveparse/internal/api"
	"github.com/probelang/moveparse/internal/cliutil"
	"github.com/probelang/moveparse/internal/config"
	"github.com/probelang/moveparse/internal/lexer"
	"github.com/probelang/moveparse/internal/parser"
	"github.com/probelang/moveparse/internal/token"
)

func main() {
	app := cli.NewApp()
	app.Name = "moveparse"
	app.Usage = "parse the resource-oriented contract language's surface syntax"
	app.Version = "0.1.0"
	app.Commands = []cli.Command{
		tokensCommand,
		astCommand,
		replCommand,
		watchCommand,
		serveCommand,
		addrCommand,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var tokensCommand = cli.Command{
	Name:      "tokens",
	Usage:     "print the token stream of a source file",
	ArgsUsage: "<file>",
	Action: func(c *cli.Context) error {
		filename, src, err := readArg(c)
		if err != nil {
			return err
		}
		toks := lexer.New(filename, src).Tokenize()

		table := tablewriter.NewWriter(cliutil.Stdout())
		table.SetHeader([]string{"Line", "Col", "Type", "Literal"})
		for _, t := range toks {
			if t.Type == token.EOF {
				continue
			}
			table.Append([]string{fmt.Sprint(t.Pos.Line), fmt.Sprint(t.Pos.Column), t.Type.String(), t.Literal})
		}
		table.Render()
		return nil
	},
}

var astCommand = cli.Command{
	Name:      "ast",
	Usage:     "parse a file as a Program and dump its AST",
	ArgsUsage: "<file>",
	Action: func(c *cli.Context) error {
		filename, src, err := readArg(c)
		if err != nil {
			return err
		}
		prog, err := parser.Program(filename, src)
		if err != nil {
			cliutil.PrintParseError(cliutil.Stdout(), perr(err), err.Error())
			return cli.NewExitError("parse failed", 1)
		}
		spew.Fdump(cliutil.Stdout(), prog)
		return nil
	},
}

var replCommand = cli.Command{
	Name:  "repl",
	Usage: "read commands one line at a time and print their parsed AST",
	Action: func(c *cli.Context) error {
		cfg := config.Default()
		line := liner.NewLiner()
		defer line.Close()
		line.SetCtrlCAborts(true)

		if f, err := os.Open(cfg.REPL.HistoryFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}

		for {
			input, err := line.Prompt(cfg.REPL.Prompt)
			if err != nil {
				break
			}
			if strings.TrimSpace(input) == "" {
				continue
			}
			line.AppendHistory(input)

			cmd, err := parser.Cmd("<repl>", input)
			if err != nil {
				cliutil.PrintParseError(cliutil.Stdout(), perr(err), err.Error())
				continue
			}
			spew.Fdump(cliutil.Stdout(), cmd)
		}

		if f, err := os.Create(cfg.REPL.HistoryFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
		return nil
	},
}

var watchCommand = cli.Command{
	Name:      "watch",
	Usage:     "reparse a directory tree as a Program whenever a file changes",
	ArgsUsage: "<dir>",
	Action: func(c *cli.Context) error {
		dir := "."
		if c.NArg() > 0 {
			dir = c.Args().Get(0)
		}
		events := make(chan notify.EventInfo, 8)
		if err := notify.Watch(dir+"/...", events, notify.Write, notify.Create); err != nil {
			return err
		}
		defer notify.Stop(events)

		log.Printf("watching %s for changes", dir)
		for ev := range events {
			path := ev.Path()
			if !strings.HasSuffix(path, ".move") {
				continue
			}
			src, err := ioutil.ReadFile(path)
			if err != nil {
				log.Printf("%s: %v", path, err)
				continue
			}
			if _, err := parser.Program(path, string(src)); err != nil {
				cliutil.PrintParseError(cliutil.Stdout(), perr(err), err.Error())
				continue
			}
			log.Printf("%s: ok (%s)", path, time.Now().Format(time.RFC3339))
		}
		return nil
	},
}

var serveCommand = cli.Command{
	Name:  "serve",
	Usage: "run the HTTP parse-as-a-service API",
	Action: func(c *cli.Context) error {
		cfg := config.Default()
		srv, err := api.New(cfg.Cache.Size)
		if err != nil {
			return err
		}
		log.Printf("listening on %s", cfg.Server.Addr)
		return http.ListenAndServe(cfg.Server.Addr, srv.Handler(cfg.Server.AllowedOrigins))
	},
}

var addrCommand = cli.Command{
	Name:      "addr",
	Usage:     "print the decimal value of a 0x... address literal",
	ArgsUsage: "<0xHEX>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.NewExitError("expected exactly one address argument", 1)
		}
		v, err := uint256.FromHex(c.Args().Get(0))
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		fmt.Fprintln(cliutil.Stdout(), v.Dec())
		return nil
	},
}

func readArg(c *cli.Context) (filename, source string, err error) {
	if c.NArg() != 1 {
		return "", "", cli.NewExitError("expected exactly one file argument", 1)
	}
	filename = c.Args().Get(0)
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return "", "", err
	}
	return filename, string(data), nil
}

// perr adapts a parser.ParseError (or any error) to fmt.Stringer for
// cliutil.PrintParseError; errors without a position print as "?".
func perr(err error) fmt.Stringer {
	if pe, ok := err.(*parser.ParseError); ok {
		return pe.Pos
	}
	return stringStringer("?")
}

type stringStringer string

func (s stringStringer) String() string { return string(s) }
