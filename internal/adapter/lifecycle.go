package adapter

import (
	"context"
	"fmt"
	"io"
	"reflect"

	"github.com/xraph/ioc/internal/errors"
	"github.com/xraph/ioc/internal/logger"
)

// own records v for disposal when it implements Disposer or io.Closer.
func (a *Adapter) own(v any) {
	if !disposable(v) {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if reflect.TypeOf(v).Comparable() {
		if _, ok := a.ownedSet[v]; ok {
			return
		}
		a.ownedSet[v] = struct{}{}
	}
	a.owned = append(a.owned, v)
}

// Dispose stops the backing container when it was started, then releases
// owned instances in reverse creation order. Every failure is reported.
// Dispose is idempotent; other operations fail once it has run.
func (a *Adapter) Dispose(ctx context.Context) error {
	a.mu.Lock()
	if a.disposed {
		a.mu.Unlock()
		return nil
	}
	a.disposed = true
	started := a.started
	owned := a.owned
	a.owned = nil
	a.ownedSet = make(map[any]struct{})
	a.mu.Unlock()

	var errs []error

	if started {
		if err := a.backing.Stop(ctx); err != nil {
			errs = append(errs, errors.NewServiceError(a.name, "stop", err))
		}
	}

	for i := len(owned) - 1; i >= 0; i-- {
		v := owned[i]
		err := release(v)
		a.metrics.Disposed(err)
		if err != nil {
			errs = append(errs, errors.NewServiceError(fmt.Sprintf("%T", v), "dispose", err))
		}
	}

	if len(errs) > 0 {
		err := errors.ErrDisposalFailed(errs...)
		a.log.Error("dispose failed", logger.Int("failures", len(errs)), logger.Error(err))
		return err
	}

	a.log.Info("container disposed", logger.Int("released", len(owned)))
	return nil
}

// Close disposes the adapter with a background context.
func (a *Adapter) Close() error {
	return a.Dispose(context.Background())
}

func disposable(v any) bool {
	switch v.(type) {
	case Disposer, io.Closer:
		return true
	default:
		return false
	}
}

func release(v any) error {
	switch d := v.(type) {
	case Disposer:
		return d.Dispose()
	case io.Closer:
		return d.Close()
	default:
		return nil
	}
}
