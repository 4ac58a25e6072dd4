// Package app holds the view state behind the CLI: list and dashboard
// models that load from the store, filter client-side and report a
// loading flag and user-facing message.
package app

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/nhle/homekeeper/internal/store"
)

// Status is the loading flag and last message of a view.
type Status struct {
	Loading bool
	Message string
}

// Loader is implemented by every view model.
type Loader interface {
	Load(ctx context.Context) error
}

// Refresh loads l on the pool and delivers the outcome on the returned
// channel.
func Refresh(ctx context.Context, pool *WorkerPool, l Loader) <-chan error {
	return pool.Submit(ctx, l.Load)
}

// view is the state shared by the models: a mutex guarding the status
// and whatever data the embedding model keeps.
type view struct {
	mu     sync.Mutex
	status Status
	log    logrus.FieldLogger
}

func orStandard(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return logrus.StandardLogger()
	}
	return log
}

func (v *view) begin() {
	v.mu.Lock()
	v.status = Status{Loading: true}
	v.mu.Unlock()
}

// finish records the outcome of an operation. On success apply runs under
// the lock so data and status change together.
func (v *view) finish(action string, err error, apply func()) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		v.status = Status{Message: userMessage(action, err)}
		v.log.WithError(err).WithField("action", action).Warn("view operation failed")
		return err
	}
	if apply != nil {
		apply()
	}
	v.status = Status{}
	return nil
}

// Status returns the current loading flag and message.
func (v *view) Status() Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

func (v *view) setMessage(msg string) {
	v.mu.Lock()
	v.status.Message = msg
	v.mu.Unlock()
}

// userMessage turns a data layer error into something a person can act on.
func userMessage(action string, err error) string {
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Cancelled while trying to " + action
	case store.IsStorage(err):
		return "Could not " + action + ": the database reported an error"
	default:
		return "Could not " + action + ": " + err.Error()
	}
}
