// Package download retrieves archive files over HTTP. It is the injected
// collaborator the VSO client hands its retrieval descriptors to: callers
// get back a Results handle that either already holds the outcome
// (blocking mode) or fills in as transfers complete (non-blocking mode).
package download

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Physolia/sunpy/pkg/errors"
)

// Request describes one file to retrieve. Path may contain the literal
// token "{file}", replaced with the resolved remote filename.
type Request struct {
	URL  string
	Path string
}

// Results collects the outcome of a download job. It is safe for
// concurrent use; Wait blocks until the job finishes or the context ends.
type Results struct {
	id string

	mu    sync.Mutex
	files []string
	errs  []error

	done chan struct{}
}

// NewResults creates an open Results handle for a running job.
func NewResults() *Results {
	return &Results{
		id:   uuid.NewString(),
		done: make(chan struct{}),
	}
}

// EmptyResults returns an already-finished handle with no files. Fetching
// zero records yields this without any network activity.
func EmptyResults() *Results {
	r := NewResults()
	close(r.done)
	return r
}

// ID returns the job identifier.
func (r *Results) ID() string {
	return r.id
}

// addFile records a completed file path.
func (r *Results) addFile(path string) {
	r.mu.Lock()
	r.files = append(r.files, path)
	r.mu.Unlock()
}

// addError records a failed transfer.
func (r *Results) addError(err error) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

// finish marks the job complete.
func (r *Results) finish() {
	close(r.done)
}

// Files returns the paths of completed transfers so far.
func (r *Results) Files() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.files))
	copy(out, r.files)
	return out
}

// Errors returns the failures recorded so far.
func (r *Results) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}

// Len returns the number of completed transfers so far.
func (r *Results) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}

// Wait blocks until the job completes or ctx ends.
func (r *Results) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return errors.ErrCanceled
	}
}
