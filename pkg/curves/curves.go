// Package curves exports and imports curve control points and display color
// as a JSON document keyed by object path.
package curves

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/ports"
)

// Document is the exchange format: object path -> curve state.
type Document = domain.CurveDocument

// ObjectError is the failure of one object in a batch.
type ObjectError struct {
	Path string
	Err  error
}

func (e ObjectError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

// BatchError collects per-object failures. The rest of the batch still ran.
type BatchError struct {
	Failures []ObjectError
}

func (e *BatchError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("%d object(s) failed: %s", len(e.Failures), strings.Join(msgs, "; "))
}

// Unwrap exposes each object's error to errors.Is.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// Export reads the curves at paths. Objects that fail are skipped and
// reported through a *BatchError next to the partial document.
func Export(ctx context.Context, scene ports.CurveScene, paths []string) (Document, error) {
	doc := make(Document, len(paths))
	var failures []ObjectError
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return doc, err
		}
		c, err := scene.Curve(ctx, p)
		if err != nil {
			failures = append(failures, ObjectError{Path: p, Err: err})
			continue
		}
		c.Path = p
		doc[p] = c
	}
	if len(failures) > 0 {
		return doc, &BatchError{Failures: failures}
	}
	return doc, nil
}

// Report is the outcome of an Import. Both lists are sorted by path.
type Report struct {
	Applied []string      `json:"applied"`
	Failed  []ObjectError `json:"-"`
}

// Err returns the failures as a *BatchError, or nil.
func (r Report) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return &BatchError{Failures: r.Failed}
}

// Import writes every record of doc back into scene. Each object is applied
// on its own; a missing object or a point count mismatch is recorded and the
// batch goes on.
func Import(ctx context.Context, scene ports.CurveScene, doc Document) Report {
	paths := make([]string, 0, len(doc))
	for p := range doc {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var r Report
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			r.Failed = append(r.Failed, ObjectError{Path: p, Err: err})
			continue
		}
		c := doc[p]
		c.Path = p
		if err := scene.SetCurve(ctx, c); err != nil {
			r.Failed = append(r.Failed, ObjectError{Path: p, Err: err})
			continue
		}
		r.Applied = append(r.Applied, p)
	}
	return r
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode curves: %w", err)
	}
	return nil
}

// Decode reads a JSON document and fills each curve's Path from its key.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode curves: empty document")
		}
		return nil, fmt.Errorf("decode curves: %w", err)
	}
	for p, c := range doc {
		c.Path = p
		doc[p] = c
	}
	return doc, nil
}
