package highlight

import (
	"context"
	"log/slog"
	"time"

	"github.com/interpretive-systems/rowdiff/internal/logger"
)

// Worker highlights requests on its own goroutine. At most one request
// waits at a time: submitting replaces a request the worker has not picked
// up yet. Results come back on Results in the order they finish.
type Worker struct {
	requests chan Request
	results  chan Response
	log      *slog.Logger
}

// NewWorker returns a worker. Call Run to start it.
func NewWorker() *Worker {
	return &Worker{
		requests: make(chan Request, 1),
		results:  make(chan Response, 1),
		log:      logger.Component("highlight"),
	}
}

// Submit queues req, dropping any request still waiting. It never blocks.
func (w *Worker) Submit(req Request) {
	for {
		select {
		case w.requests <- req:
			return
		default:
		}
		select {
		case old := <-w.requests:
			w.log.Debug("dropped pending request", "gen", old.Generation, "for", req.Generation)
		default:
		}
	}
}

// Results delivers one Response per request the worker processed.
func (w *Worker) Results() <-chan Response { return w.results }

// Run processes requests until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-w.requests:
			resp := w.process(req)
			select {
			case w.results <- resp:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (w *Worker) process(req Request) Response {
	start := time.Now()
	res, err := Highlight(req)
	if err != nil {
		w.log.Warn("highlight failed", "gen", req.Generation, "file", req.Filename, "err", err)
	} else {
		w.log.Debug("highlighted", "gen", req.Generation, "file", req.Filename,
			"lang", res.Language, "lines", len(res.Left)+len(res.Right), "took", time.Since(start))
	}
	return Response{Generation: req.Generation, Result: res, Err: err}
}

// Do highlights req on the calling goroutine.
func (w *Worker) Do(ctx context.Context, req Request) Response {
	if err := ctx.Err(); err != nil {
		return Response{Generation: req.Generation, Err: err}
	}
	return w.process(req)
}
