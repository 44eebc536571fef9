// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package archive

import (
	"archive/zip"
	"bytes"
	"testing"
)

// buildZip assembles an in-memory zip archive from name->contents pairs,
// used as a fixture in place of a real .jar file on disk.
func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, contents := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zw.Create(%q) failed: %v", name, err)
		}
		if _, err := w.Write([]byte(contents)); err != nil {
			t.Fatalf("write %q failed: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zw.Close() failed: %v", err)
	}
	return buf.Bytes()
}

func TestOpenBytesClassEntriesFiltersNonClassFiles(t *testing.T) {
	data := buildZip(t, map[string]string{
		"com/acme/Widget.class":  "widget-bytes",
		"com/acme/Gadget.class":  "gadget-bytes",
		"META-INF/MANIFEST.MF":   "Manifest-Version: 1.0\n",
		"com/acme/resources.txt": "not a class file",
	})

	a, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes() failed: %v", err)
	}
	defer a.Close()

	entries, err := a.ClassEntries()
	if err != nil {
		t.Fatalf("ClassEntries() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name] = true
	}
	if !names["com/acme/Widget.class"] || !names["com/acme/Gadget.class"] {
		t.Errorf("entries = %v, want Widget.class and Gadget.class", names)
	}
}

func TestOpenBytesRejectsNonZip(t *testing.T) {
	_, err := OpenBytes([]byte("not a zip archive at all"))
	if err == nil {
		t.Fatal("OpenBytes() with non-zip data: want error, got nil")
	}
}

func TestWalkStopsOnError(t *testing.T) {
	data := buildZip(t, map[string]string{
		"a/A.class": "a-bytes",
		"b/B.class": "b-bytes",
	})

	a, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes() failed: %v", err)
	}
	defer a.Close()

	seen := 0
	walkErr := a.Walk(func(name string, data []byte) error {
		seen++
		return errStop
	})
	if walkErr != errStop {
		t.Errorf("Walk() error = %v, want errStop", walkErr)
	}
	if seen != 1 {
		t.Errorf("Walk() invoked fn %d times, want 1 (stop after first error)", seen)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open("/nonexistent/path/to/plugin.jar")
	if err == nil {
		t.Fatal("Open() on missing file: want error, got nil")
	}
}

var errStop = errStopType{}

type errStopType struct{}

func (errStopType) Error() string { return "stop" }
