// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package archive opens a plugin artifact (a .jar, or any zip-format
// archive of .class files) and exposes its class-file entries as a pull
// iterator, through an mmap-backed Open/Close lifecycle generalized
// from binary-directory parsing to zip entry listing. Zip extraction
// happens here, outside the analysis core; only the (entry name, bytes)
// handoff into classfile/fingerprint crosses the boundary.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/go-kratos/kratos/v2/log"

	"codedna/fingerprint"
)

const classFileExt = ".class"

// Archive represents an open plugin artifact.
type Archive struct {
	data   mmap.MMap
	f      *os.File
	zr     *zip.Reader
	size   int64
	logger *log.Helper
}

// SetLogger attaches a logger used to report non-fatal archive-level
// conditions (currently: an archive with no .class entries at all).
func (a *Archive) SetLogger(logger *log.Helper) {
	a.logger = logger
}

// Open memory-maps the file at name and opens it as a zip archive.
func Open(name string) (*Archive, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() == 0 {
		f.Close()
		return nil, fmt.Errorf("archive: %s is empty", name)
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		_ = data.Unmap()
		f.Close()
		return nil, fmt.Errorf("archive: %s is not a valid zip: %w", name, err)
	}

	return &Archive{data: data, f: f, zr: zr, size: info.Size()}, nil
}

// OpenBytes opens an archive already resident in memory, without any
// backing file or mmap. Used for archives staged in memory by callers
// (e.g. an HTTP upload handler) rather than read from disk.
func OpenBytes(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("archive: buffer is not a valid zip: %w", err)
	}
	return &Archive{zr: zr, size: int64(len(data))}, nil
}

// Close unmaps and closes the underlying file, if any. Safe to call on
// an Archive opened with OpenBytes (a no-op in that case).
func (a *Archive) Close() error {
	if a.data != nil {
		_ = a.data.Unmap()
	}
	if a.f != nil {
		return a.f.Close()
	}
	return nil
}

// Size returns the total byte size of the archive.
func (a *Archive) Size() int64 { return a.size }

// ClassEntries reads every .class entry out of the archive, in
// directory order, and returns them as fingerprint.ClassEntry values
// ready for fingerprint.Builder.Build. Non-.class entries (resources,
// manifests, nested jars) are skipped without error.
func (a *Archive) ClassEntries() ([]fingerprint.ClassEntry, error) {
	var out []fingerprint.ClassEntry
	for _, zf := range a.zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		if !strings.HasSuffix(zf.Name, classFileExt) {
			continue
		}

		data, err := readZipEntry(zf)
		if err != nil {
			return nil, fmt.Errorf("archive: reading %s: %w", zf.Name, err)
		}
		out = append(out, fingerprint.ClassEntry{Name: zf.Name, Data: data})
	}
	if len(out) == 0 && a.logger != nil {
		a.logger.Errorf("archive: no .class entries found among %d zip entries", len(a.zr.File))
	}
	return out, nil
}

// Walk pulls every .class entry one at a time, invoking fn with its
// name and bytes. Iteration stops at the first error fn returns.
func (a *Archive) Walk(fn func(name string, data []byte) error) error {
	for _, zf := range a.zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		if !strings.HasSuffix(zf.Name, classFileExt) {
			continue
		}

		data, err := readZipEntry(zf)
		if err != nil {
			return fmt.Errorf("archive: reading %s: %w", zf.Name, err)
		}
		if err := fn(zf.Name, data); err != nil {
			return err
		}
	}
	return nil
}

func readZipEntry(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
