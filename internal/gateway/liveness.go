package gateway

import (
	"context"
	"sync/atomic"
)

// View tracks whether the consumer of a remote read is still interested in
// its result. A dismissed view never receives a late response.
type View struct {
	dismissed atomic.Bool
}

// NewView returns a live view.
func NewView() *View { return &View{} }

// ViewFor returns a view that is dismissed once ctx is done.
func ViewFor(ctx context.Context) *View {
	v := NewView()
	context.AfterFunc(ctx, v.Dismiss)
	return v
}

// Dismiss marks the view as gone. It is safe to call more than once.
func (v *View) Dismiss() { v.dismissed.Store(true) }

// Alive reports whether the view still accepts results.
func (v *View) Alive() bool { return !v.dismissed.Load() }

// Deliver runs fetch and passes its result to apply only if v is still alive
// when fetch returns. The fetch itself is not interrupted. It reports whether
// apply ran.
func Deliver[T any](ctx context.Context, v *View, fetch func(context.Context) (T, error), apply func(T)) (bool, error) {
	res, err := fetch(ctx)
	if err != nil {
		return false, err
	}
	if !v.Alive() {
		return false, nil
	}
	apply(res)
	return true, nil
}
