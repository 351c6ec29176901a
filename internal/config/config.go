// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package config loads the moveparse CLI's TOML configuration file, the way
// a node config is loaded: a documented struct, decoded with naoina/toml,
// with conservative defaults applied before decoding.
package config

import (
	"os"

	"github.com/naoina/toml"
)

// Config is the root of the CLI's configuration file.
type Config struct {
	REPL   REPLConfig   `toml:"repl"`
	Watch  WatchConfig  `toml:"watch"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
}

// REPLConfig configures the interactive "parse a Cmd" REPL.
type REPLConfig struct {
	HistoryFile string `toml:"history_file"`
	Prompt      string `toml:"prompt"`
}

// WatchConfig configures the filesystem-watching reparse subcommand.
type WatchConfig struct {
	Paths        []string `toml:"paths"`
	DebounceMillis int    `toml:"debounce_millis"`
}

// ServerConfig configures the HTTP parse-as-a-service API.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// CacheConfig bounds the in-memory parse-result cache.
type CacheConfig struct {
	Size int `toml:"size"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		REPL:   REPLConfig{HistoryFile: ".moveparse_history", Prompt: "move> "},
		Watch:  WatchConfig{DebounceMillis: 150},
		Server: ServerConfig{Addr: ":8787", AllowedOrigins: []string{"*"}},
		Cache:  CacheConfig{Size: 256},
	}
}

// Load reads and decodes a TOML config file, starting from Default() so any
// field the file omits keeps its default value.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	if err := toml.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
