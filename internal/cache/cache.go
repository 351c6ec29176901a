// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package cache memoizes parse results keyed by (filename, source) so that
// the HTTP API doesn't re-lex/re-parse unchanged files on every request. The
// watch CLI subcommand does not use it.
package cache

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru"
)

// Entry is one cached parse outcome; exactly one of Program/Err is set.
type Entry struct {
	Program interface{}
	Err     error
}

// ParseCache is a fixed-capacity LRU of parse results.
type ParseCache struct {
	lru *lru.Cache
}

// New creates a ParseCache holding at most size entries.
func New(size int) (*ParseCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &ParseCache{lru: c}, nil
}

// Key derives a cache key from a filename and its source text.
func Key(filename, source string) string {
	sum := sha256.Sum256([]byte(source))
	return filename + ":" + hex.EncodeToString(sum[:])
}

// Get returns the cached entry for key, if present.
func (c *ParseCache) Get(key string) (Entry, bool) {
	v, ok := c.lru.Get(key)
	if !ok {
		return Entry{}, false
	}
	return v.(Entry), true
}

// Put stores an entry, evicting the least recently used one if the cache is
// at capacity.
func (c *ParseCache) Put(key string, e Entry) {
	c.lru.Add(key, e)
}
