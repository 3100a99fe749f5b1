package store

import (
	"context"
	"time"

	"github.com/RAFagb11/synked-sub001/internal/common"
)

// Retrying wraps a Store and retries transient failures with exponential
// backoff. Business-rule errors (not-found and everything else that is not
// classified unavailable) surface immediately.
type Retrying struct {
	inner     Store
	attempts  int
	baseDelay time.Duration
}

func NewRetrying(inner Store, attempts int, baseDelay time.Duration) *Retrying {
	if attempts < 1 {
		attempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 50 * time.Millisecond
	}
	return &Retrying{inner: inner, attempts: attempts, baseDelay: baseDelay}
}

func (r *Retrying) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	var doc map[string]any
	err := r.do(ctx, func() error {
		var err error
		doc, err = r.inner.Get(ctx, collection, id)
		return err
	})
	return doc, err
}

func (r *Retrying) Put(ctx context.Context, collection, id string, fields map[string]any) error {
	return r.do(ctx, func() error {
		return r.inner.Put(ctx, collection, id, fields)
	})
}

func (r *Retrying) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return r.do(ctx, func() error {
		return r.inner.Update(ctx, collection, id, fields)
	})
}

func (r *Retrying) Delete(ctx context.Context, collection, id string) error {
	return r.do(ctx, func() error {
		return r.inner.Delete(ctx, collection, id)
	})
}

func (r *Retrying) Query(ctx context.Context, collection string, filters []Filter, orderBy *Order) ([]map[string]any, error) {
	var docs []map[string]any
	err := r.do(ctx, func() error {
		var err error
		docs, err = r.inner.Query(ctx, collection, filters, orderBy)
		return err
	})
	return docs, err
}

func (r *Retrying) do(ctx context.Context, op func() error) error {
	delay := r.baseDelay
	var err error
	for attempt := 0; attempt < r.attempts; attempt++ {
		err = op()
		if err == nil || !common.Is(err, common.CodeUnavailable) {
			return err
		}
		if attempt == r.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return common.NewError(common.CodeUnavailable, "store operation canceled", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
	return common.NewError(common.CodeUnavailable, "store unavailable after retries", err)
}
