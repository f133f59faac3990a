package combine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultOutputName is the combined file written inside the input directory.
const DefaultOutputName = "combined_msgs.json"

var (
	// ErrEmptySuffix indicates the combiner was configured without a suffix
	ErrEmptySuffix = errors.New("empty suffix")
)

// Reporter receives progress callbacks during a run.
// OnFile is called from worker goroutines and must be safe for concurrent use.
type Reporter interface {
	OnStart(totalFiles int)
	OnFile(path string, err error)
	OnComplete(report *Report)
}

type nopReporter struct{}

func (nopReporter) OnStart(int)          {}
func (nopReporter) OnFile(string, error) {}
func (nopReporter) OnComplete(*Report)   {}

// Options configures a Combiner.
type Options struct {
	Suffix        string   // file name suffix to merge, e.g. msg.23.json
	OutputName    string   // defaults to DefaultOutputName
	Ignore        []string // globs relative to the input directory
	Workers       int      // concurrent decoders, defaults to 1
	ValidateUUIDs bool     // warn on name_to_uuid values that are not UUID strings
	Reporter      Reporter
}

// FileError records a file that could not be merged.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Report describes the outcome of a run.
type Report struct {
	OutputPath string
	Files      []string     // discovered files, in merge order
	Merged     int          // files successfully merged
	Failures   []*FileError // files skipped because they failed to parse
	Warnings   []string     // non-fatal validation findings
	Overrides  int          // keys replaced by a later file
	Msgs       int          // keys in the combined msgs table
	NameToUUID int          // keys in the combined name_to_uuid table
}

// Combiner merges message files found below a directory.
type Combiner struct {
	opts   Options
	ignore []compiledPattern
}

// New creates a Combiner. Ignore patterns are checked up front.
func New(opts Options) (*Combiner, error) {
	if opts.Suffix == "" {
		return nil, ErrEmptySuffix
	}
	if opts.OutputName == "" {
		opts.OutputName = DefaultOutputName
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Reporter == nil {
		opts.Reporter = nopReporter{}
	}
	ignore, err := compilePatterns(opts.Ignore)
	if err != nil {
		return nil, fmt.Errorf("invalid ignore pattern: %w", err)
	}
	return &Combiner{opts: opts, ignore: ignore}, nil
}

// Run merges every matching file below dir into dir/<OutputName>.
// Files are decoded concurrently but merged strictly in walk order, so the
// result does not depend on scheduling. A file that fails to parse is logged,
// recorded in the report and skipped.
func (c *Combiner) Run(ctx context.Context, dir string) (*Report, error) {
	outputPath := filepath.Join(dir, c.opts.OutputName)
	d := &discovery{rootDir: dir, suffix: c.opts.Suffix, exclude: outputPath, ignore: c.ignore}
	files, err := d.files()
	if err != nil {
		return nil, fmt.Errorf("failed to discover files in %s: %w", dir, err)
	}

	report := &Report{OutputPath: outputPath, Files: files}
	c.opts.Reporter.OnStart(len(files))

	docs, errs, err := c.decodeAll(ctx, files)
	if err != nil {
		return nil, err
	}

	combined := NewDocument()
	for i, path := range files {
		if errs[i] != nil {
			log.Printf("Error processing file %s: %v", path, errs[i])
			report.Failures = append(report.Failures, &FileError{Path: path, Err: errs[i]})
			continue
		}
		if c.opts.ValidateUUIDs {
			report.Warnings = append(report.Warnings, validateUUIDs(path, docs[i])...)
		}
		report.Overrides += combined.Merge(docs[i])
		report.Merged++
	}

	if err := combined.WriteFile(outputPath); err != nil {
		return nil, err
	}

	report.Msgs = len(combined.Msgs)
	report.NameToUUID = len(combined.NameToUUID)
	c.opts.Reporter.OnComplete(report)
	return report, nil
}

// decodeAll reads files with a bounded worker pool. Per-file failures land in
// errs at the file's index; only cancellation fails the whole call.
func (c *Combiner) decodeAll(ctx context.Context, files []string) ([]*Document, []error, error) {
	docs := make([]*Document, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			docs[i], errs[i] = ReadDocument(path)
			c.opts.Reporter.OnFile(path, errs[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return docs, errs, nil
}

// validateUUIDs reports name_to_uuid entries whose value is not a UUID string.
func validateUUIDs(path string, doc *Document) []string {
	var warnings []string
	for name, raw := range doc.NameToUUID {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: name_to_uuid[%q] is not a string", path, name))
			continue
		}
		if _, err := uuid.Parse(s); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: name_to_uuid[%q] = %q is not a UUID", path, name, s))
		}
	}
	slices.Sort(warnings)
	return warnings
}
