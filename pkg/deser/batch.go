package deser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/715d/bdatconv/pkg/bdat"
	"github.com/715d/bdatconv/pkg/textfmt"
)

// Result is the outcome of deserializing one document in a batch. Exactly one
// of Table and Err is set.
type Result struct {
	Doc   *textfmt.Document
	Table *bdat.Table
	Err   error
}

// DeserializeAll converts docs concurrently, at most Options.Jobs at a time.
// Results are in the order of docs.
//
// With Options.FailFast the first failure cancels the tables still running and
// is returned on its own. Otherwise every table is attempted and the returned
// error joins all failures.
func (d *Deserializer) DeserializeAll(ctx context.Context, docs []*textfmt.Document) ([]Result, error) {
	// Each goroutine writes only results[idx], so no lock is needed; the
	// caller reads after Wait.
	results := make([]Result, len(docs))

	wg := &errgroup.Group{}
	workCtx := ctx
	if d.opts.FailFast {
		wg, workCtx = errgroup.WithContext(ctx)
	}
	wg.SetLimit(d.opts.Jobs)

	slog.Debug("deserializing tables", "count", len(docs), "options", d.opts)
	var failed atomic.Int64
	for idx, doc := range docs {
		wg.Go(func() error {
			table, err := d.Deserialize(workCtx, doc)
			results[idx] = Result{Doc: doc, Table: table, Err: err}
			if err == nil {
				return nil
			}
			failed.Add(1)
			if d.opts.FailFast {
				return tableError(doc, err)
			}
			return nil
		})
	}

	if err := wg.Wait(); err != nil {
		return results, err
	}
	slog.Debug("deserialized tables", "count", len(docs), "failed", failed.Load())

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, tableError(r.Doc, r.Err))
		}
	}
	return results, errors.Join(errs...)
}

func tableError(doc *textfmt.Document, err error) error {
	if doc.Source != "" {
		return fmt.Errorf("%s: %w", doc.Source, err)
	}
	return fmt.Errorf("table %s: %w", doc.Label(), err)
}
