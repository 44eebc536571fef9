// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fingerprint

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/sync/errgroup"

	"codedna/cerrors"
	"codedna/classfile"
	"codedna/hashfn"
)

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// BuilderOptions configures how class files are analyzed and hashed
// while being folded into a CodeDNA.
type BuilderOptions struct {
	Mode classfile.Mode
	Hash hashfn.Func
	// Parallel enables per-class analysis across goroutines via
	// errgroup. Classes are fully independent, so this only affects
	// wall-clock time, never the resulting CodeDNA.
	Parallel bool
	// Logger, if set, receives one line per skipped class file in
	// addition to the Diagnostic already returned from Build. Callers
	// that only care about the aggregate CodeDNA can leave it nil.
	Logger *log.Helper
}

// Builder aggregates a stream of class files into one CodeDNA. A Builder
// holds no per-artifact state and is safe to reuse and share.
type Builder struct {
	opts     BuilderOptions
	analyzer *classfile.Analyzer
}

func NewBuilder(opts BuilderOptions) *Builder {
	if opts.Hash == nil {
		opts.Hash = hashfn.SHA256Hex
	}
	return &Builder{
		opts:     opts,
		analyzer: classfile.NewAnalyzer(classfile.AnalyzerOptions{Mode: opts.Mode, Hash: opts.Hash}),
	}
}

// SetLogger attaches a logger for per-class skip diagnostics after
// construction, for callers (like the serve subcommand) that build the
// Server's Helper after the Builder already exists.
func (b *Builder) SetLogger(logger *log.Helper) {
	b.opts.Logger = logger
}

// ClassEntry is one (name, raw bytes) pair pulled from an artifact
// archive; Builder only inspects entries whose Name ends in ".class".
type ClassEntry struct {
	Name string
	Data []byte
}

// Diagnostic reports a single skipped class file: the analyzer's
// non-fatal, per-class parse-error policy made concrete.
type Diagnostic struct {
	EntryName string
	Err       error
}

// Build analyzes every ".class" entry in entries and folds the results
// into a single CodeDNA for artifactName. Per-class parse failures are
// collected as diagnostics and otherwise ignored; the artifact is fatal
// only when zero class files were readable.
func (b *Builder) Build(artifactName string, entries []ClassEntry) (*CodeDNA, []Diagnostic, error) {
	classEntries := make([]ClassEntry, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name, ".class") {
			classEntries = append(classEntries, e)
		}
	}

	infos := make([]*classfile.ClassInfo, len(classEntries))
	diagErrs := make([]error, len(classEntries))

	if b.opts.Parallel && len(classEntries) > 1 {
		g, _ := errgroup.WithContext(context.Background())
		for i, e := range classEntries {
			i, e := i, e
			g.Go(func() error {
				info, err := b.analyzer.Analyze(e.Data)
				if err != nil {
					diagErrs[i] = err
					return nil
				}
				infos[i] = info
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, e := range classEntries {
			info, err := b.analyzer.Analyze(e.Data)
			if err != nil {
				diagErrs[i] = err
				continue
			}
			infos[i] = info
		}
	}

	var diagnostics []Diagnostic
	var readable []*classfile.ClassInfo
	for i, info := range infos {
		if diagErrs[i] != nil {
			d := Diagnostic{EntryName: classEntries[i].Name, Err: diagErrs[i]}
			diagnostics = append(diagnostics, d)
			if b.opts.Logger != nil {
				b.opts.Logger.Errorf("skipping %s in %s: %v", d.EntryName, artifactName, d.Err)
			}
			continue
		}
		readable = append(readable, info)
	}

	if len(readable) == 0 {
		return nil, diagnostics, cerrors.NewUnsupportedArtifactError(artifactName, "no readable class files in archive")
	}

	dna := b.aggregate(artifactName, readable)
	return dna, diagnostics, nil
}

func (b *Builder) aggregate(artifactName string, infos []*classfile.ClassInfo) *CodeDNA {
	hash := b.opts.Hash

	classHashSet := newSet()
	inheritanceHashSet := newSet()
	interfaceHashSet := newSet()
	packageStructure := make(map[string]int)

	extRefSet := newSet()
	methodSigHashSet := newSet()
	annotationHashSet := newSet()

	patternHashSet := newSet()
	histograms := make(map[string]Histogram)

	totalMethods := 0
	totalFields := 0

	for _, ci := range infos {
		totalMethods += len(ci.Methods)
		totalFields += len(ci.Fields)

		sortedIfaces := append([]string(nil), ci.Interfaces...)
		sort.Strings(sortedIfaces)
		classHashSet.add(hash(ci.ThisClass + "|" + ci.SuperClass + "|" + strings.Join(sortedIfaces, ",")))

		if ci.SuperClass != "" {
			inheritanceHashSet.add(hash(ci.ThisClass + ":extends:" + ci.SuperClass))
		}
		for _, iface := range ci.Interfaces {
			interfaceHashSet.add(hash(ci.ThisClass + ":implements:" + iface))
		}

		pkg := ""
		if idx := strings.LastIndexByte(ci.ThisClass, '/'); idx >= 0 {
			pkg = ci.ThisClass[:idx]
		}
		packageStructure[pkg]++

		for _, ref := range ci.ExternalReferences {
			extRefSet.add(hash(ref))
		}
		for _, anno := range ci.Annotations {
			annotationHashSet.add(hash(anno))
		}

		for _, m := range ci.Methods {
			signature := m.Name + m.Descriptor
			methodSigHashSet.add(hash(ci.ThisClass + "." + signature))

			if m.InstructionPattern == "" {
				continue
			}
			patternHashSet.add(m.InstructionPattern)
			if m.InstructionHistogram != nil {
				key := hash(ci.ThisClass + "." + signature)
				histograms[key] = Histogram(m.InstructionHistogram)
			}
		}
	}

	metadata := Metadata{
		ArtifactName: artifactName,
		Version:      extractVersion(artifactName),
		TimestampMs:  time.Now().UnixMilli(),
		TotalClasses: len(infos),
		TotalMethods: totalMethods,
		TotalFields:  totalFields,
	}

	structure := Structure{
		ClassHashes:       classHashSet.sorted(),
		PackageStructure:  packageStructure,
		InheritanceHashes: inheritanceHashSet.sorted(),
		InterfaceHashes:   interfaceHashSet.sorted(),
	}

	api := APIFootprint{
		ExternalReferences:    extRefSet.sorted(),
		MethodSignatureHashes: methodSigHashSet.sorted(),
		AnnotationHashes:      annotationHashSet.sorted(),
	}

	behavioral := Behavioral{
		InstructionPatternHashes: patternHashSet.sorted(),
		InstructionHistograms:    histograms,
	}

	overall := hash(strings.Join([]string{
		strings.Join(structure.ClassHashes, ","),
		strings.Join(structure.InheritanceHashes, ","),
		strings.Join(api.ExternalReferences, ","),
		strings.Join(api.MethodSignatureHashes, ","),
		strings.Join(behavioral.InstructionPatternHashes, ","),
	}, "|"))

	return &CodeDNA{
		Metadata:     metadata,
		Structure:    structure,
		APIFootprint: api,
		Behavioral:   behavioral,
		Hash:         overall,
	}
}

func extractVersion(artifactName string) string {
	return versionPattern.FindString(artifactName)
}

// set is a deterministic, sorted-on-read string set used throughout
// aggregation so every CodeDNA feature collection serializes the same
// way regardless of analysis order.
type set struct {
	m map[string]struct{}
}

func newSet() *set {
	return &set{m: make(map[string]struct{})}
}

func (s *set) add(v string) {
	s.m[v] = struct{}{}
}

func (s *set) sorted() []string {
	out := make([]string, 0, len(s.m))
	for v := range s.m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
