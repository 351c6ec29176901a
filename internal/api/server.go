// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package api exposes the parser as a small HTTP service: POST a source
// file, get back a JSON-able parse outcome. Intended for editor tooling and
// CI lint hooks, not for serving production traffic.
package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/probelang/moveparse/internal/cache"
	"github.com/probelang/moveparse/internal/parser"
)

// Server serves parse requests for one of the five grammar entry points.
type Server struct {
	cache *cache.ParseCache
}

// New constructs a Server backed by a parse-result cache of the given size.
func New(cacheSize int) (*Server, error) {
	c, err := cache.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Server{cache: c}, nil
}

type parseRequest struct {
	Filename string `json:"filename"`
	Source   string `json:"source"`
}

type parseResponse struct {
	RequestID string      `json:"request_id"`
	OK        bool        `json:"ok"`
	Error     string      `json:"error,omitempty"`
	Result    interface{} `json:"result,omitempty"`
}

// Handler builds the CORS-wrapped httprouter mux: one POST endpoint per
// grammar entry point, all sharing the same request/response envelope.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	r := httprouter.New()
	r.POST("/v1/parse/program", s.withEnvelope(func(fn, src string) (interface{}, error) { return parser.Program(fn, src) }))
	r.POST("/v1/parse/script", s.withEnvelope(func(fn, src string) (interface{}, error) { return parser.Script(fn, src) }))
	r.POST("/v1/parse/script-or-module", s.withEnvelope(func(fn, src string) (interface{}, error) { return parser.ScriptOrModule(fn, src) }))
	r.POST("/v1/parse/module", s.withEnvelope(func(fn, src string) (interface{}, error) { return parser.Module(fn, src) }))
	r.POST("/v1/parse/cmd", s.withEnvelope(func(fn, src string) (interface{}, error) { return parser.Cmd(fn, src) }))

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodPost},
	})
	return c.Handler(r)
}

func (s *Server) withEnvelope(parse func(filename, source string) (interface{}, error)) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		reqID := uuid.New().String()
		w.Header().Set("Content-Type", "application/json")

		body, err := io.ReadAll(r.Body)
		if err != nil {
			s.writeError(w, reqID, http.StatusBadRequest, err.Error())
			return
		}
		var req parseRequest
		if err := json.Unmarshal(body, &req); err != nil {
			s.writeError(w, reqID, http.StatusBadRequest, err.Error())
			return
		}

		// The endpoint path is part of the key: the same source parses to a
		// different result under each entry point.
		key := r.URL.Path + "|" + cache.Key(req.Filename, req.Source)
		if entry, ok := s.cache.Get(key); ok {
			s.writeResult(w, reqID, entry.Program, entry.Err)
			return
		}

		result, perr := parse(req.Filename, req.Source)
		s.cache.Put(key, cache.Entry{Program: result, Err: perr})
		s.writeResult(w, reqID, result, perr)
	}
}

func (s *Server) writeResult(w http.ResponseWriter, reqID string, result interface{}, err error) {
	if err != nil {
		s.writeError(w, reqID, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if encErr := json.NewEncoder(w).Encode(parseResponse{RequestID: reqID, OK: true, Result: result}); encErr != nil {
		log.Printf("api: failed to encode response %s: %v", reqID, encErr)
	}
}

func (s *Server) writeError(w http.ResponseWriter, reqID string, status int, msg string) {
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(parseResponse{RequestID: reqID, OK: false, Error: msg}); encErr != nil {
		log.Printf("api: failed to encode error response %s: %v", reqID, encErr)
	}
}
