// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package api

import (
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"codedna/archive"
	"codedna/fingerprint"
)

const requestIDHeader = "X-Request-Id"

// Server wires a SearchEngine and a fingerprint.Builder behind a
// gin.Engine, following a gin.Default() + route-group shape
// generalized from forensics endpoints to plugin fingerprint search.
type Server struct {
	engine  *SearchEngine
	builder *fingerprint.Builder
	logger  *log.Helper
}

// NewServer constructs a Server. A nil w defaults to stdout.
func NewServer(engine *SearchEngine, builder *fingerprint.Builder, w io.Writer) *Server {
	if w == nil {
		w = os.Stdout
	}
	logger := log.NewHelper(log.NewFilter(log.NewStdLogger(w), log.FilterLevel(log.LevelError)))
	builder.SetLogger(logger)
	engine.SetLogger(logger)
	return &Server{engine: engine, builder: builder, logger: logger}
}

// Router builds the gin.Engine exposing /v1/fingerprint, /v1/search and
// /v1/stats.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.Use(s.requestIDMiddleware())

	v1 := r.Group("/v1")
	{
		v1.POST("/fingerprint", s.handleFingerprint)
		v1.POST("/search", s.handleSearch)
		v1.GET("/stats", s.handleStats)
	}
	return r
}

// requestIDMiddleware tags every request with a google/uuid request ID
// (or keeps the one the client sent), echoed in the response header and
// body and in the handlers' error log lines. gin's default access log
// does not include it.
func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.Request.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, reqID)
		c.Set(requestIDHeader, reqID)
		c.Next()
	}
}

func (s *Server) handleFingerprint(c *gin.Context) {
	reqID, _ := c.Get(requestIDHeader)

	fileHeader, err := c.FormFile("archive")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing multipart field \"archive\"", "request_id": reqID})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "request_id": reqID})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "request_id": reqID})
		return
	}

	ar, err := archive.OpenBytes(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "request_id": reqID})
		return
	}
	defer ar.Close()

	entries, err := ar.ClassEntries()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "request_id": reqID})
		return
	}

	dna, diagnostics, err := s.builder.Build(fileHeader.Filename, entries)
	if err != nil {
		s.logger.Errorf("request %v: fingerprint build failed: %v", reqID, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "request_id": reqID})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request_id":  reqID,
		"codedna":     dna,
		"diagnostics": diagnostics,
	})
}

type searchRequestBody struct {
	CodeDNA        *fingerprint.CodeDNA `json:"codedna"`
	Threshold      float64              `json:"threshold"`
	TopK           int                  `json:"top_k"`
	MinBandMatches int                  `json:"min_band_matches"`
	Exact          bool                 `json:"exact"`
}

func (s *Server) handleSearch(c *gin.Context) {
	reqID, _ := c.Get(requestIDHeader)

	var body searchRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "request_id": reqID})
		return
	}
	if body.CodeDNA == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing \"codedna\"", "request_id": reqID})
		return
	}

	results, err := s.engine.Search(SearchRequest{
		Query:          body.CodeDNA,
		Threshold:      body.Threshold,
		TopK:           body.TopK,
		MinBandMatches: body.MinBandMatches,
		Exact:          body.Exact,
	})
	if err != nil {
		s.logger.Errorf("request %v: search failed: %v", reqID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "request_id": reqID})
		return
	}

	c.JSON(http.StatusOK, gin.H{"request_id": reqID, "results": results})
}

func (s *Server) handleStats(c *gin.Context) {
	reqID, _ := c.Get(requestIDHeader)
	c.JSON(http.StatusOK, gin.H{"request_id": reqID, "stats": s.engine.Stats()})
}
