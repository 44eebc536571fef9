// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package api

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"codedna/classfile"
	"codedna/fingerprint"
	"codedna/store"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "corpus.db"))
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.PutMeta(store.Meta{K: 16, B: 4, HashAlgo: "sha256"}); err != nil {
		t.Fatalf("PutMeta() failed: %v", err)
	}
	return s
}

func TestHandleStatsReturnsEmptyIndex(t *testing.T) {
	s := newTestStore(t)
	eng, err := NewSearchEngine(s)
	if err != nil {
		t.Fatalf("NewSearchEngine() failed: %v", err)
	}
	srv := NewServer(eng, fingerprint.NewBuilder(fingerprint.BuilderOptions{Mode: classfile.ModeExact}), nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body["request_id"] == "" || body["request_id"] == nil {
		t.Error("response missing request_id")
	}
	stats, ok := body["stats"].(map[string]any)
	if !ok || stats["NumPlugins"] != float64(0) {
		t.Errorf("stats = %v, want NumPlugins 0 for an empty corpus", body["stats"])
	}
}

func TestHandleSearchRejectsMissingCodeDNA(t *testing.T) {
	s := newTestStore(t)
	eng, err := NewSearchEngine(s)
	if err != nil {
		t.Fatalf("NewSearchEngine() failed: %v", err)
	}
	srv := NewServer(eng, fingerprint.NewBuilder(fingerprint.BuilderOptions{Mode: classfile.ModeExact}), nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/search", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleFingerprintParsesUploadedArchive(t *testing.T) {
	s := newTestStore(t)
	eng, err := NewSearchEngine(s)
	if err != nil {
		t.Fatalf("NewSearchEngine() failed: %v", err)
	}
	srv := NewServer(eng, fingerprint.NewBuilder(fingerprint.BuilderOptions{Mode: classfile.ModeExact}), nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("archive", "widget.jar")
	if err != nil {
		t.Fatalf("CreateFormFile() failed: %v", err)
	}
	if _, err := part.Write(buildZipWithOneClass(t)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/fingerprint", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity && rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 or 422", rec.Code)
	}
}

func buildZipWithOneClass(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("not-a-real-classfile.class")
	if err != nil {
		t.Fatalf("zw.Create() failed: %v", err)
	}
	if _, err := w.Write([]byte{0x00, 0x00, 0x00, 0x00}); err != nil {
		t.Fatalf("write: %v", err)
	}
	zw.Close()
	return buf.Bytes()
}
