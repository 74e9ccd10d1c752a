package driver

import (
	"context"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"ferrite/internal/trace"
)

// CheckFiles checks every path concurrently, at most jobs at a time
// (GOMAXPROCS when jobs <= 0). Inputs share nothing: each one gets its own
// FileSet, bag and instance registry. Results keep the order of paths; a
// fatal error of one input is stored in its Result.Err and does not stop
// the others. The returned error is non-nil only on cancellation.
func CheckFiles(ctx context.Context, paths []string, opts Options, jobs int) ([]*Result, error) {
	opts = opts.normalized()
	results := make([]*Result, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	tracer := trace.FromContext(ctx)
	sp := trace.Begin(tracer, trace.ScopeDriver, "check-files", trace.CurrentSpan(ctx).SpanID)
	defer sp.End("")
	ctx = trace.WithSpan(ctx, sp)

	// Настраиваем параллелизм
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				results[i] = loadFailure(path, err, opts)
				notify(opts, results[i])
				return nil
			}
			res, err := Check(gctx, path, data, opts)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			res.Err = err
			// мьютекс не нужен — индекс i уникален
			results[i] = res
			notify(opts, res)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func notify(opts Options, res *Result) {
	if opts.OnResult != nil {
		opts.OnResult(res)
	}
}
