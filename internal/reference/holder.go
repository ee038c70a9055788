package reference

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/atomic"
)

// ErrReloadInProgress is returned when a reload is requested while another is running.
var ErrReloadInProgress = errors.New("reference reload already in progress")

// Loader produces a fresh table, normally Store.Load.
type Loader interface {
	Load(ctx context.Context) (*Table, error)
}

// Holder owns the live table. Readers take a pointer to the current table and keep using it
// even if a reload swaps in a newer one mid-request.
type Holder struct {
	current   *atomic.Pointer[Table]
	reloading *atomic.Bool
	loader    Loader
}

// NewHolder starts with initial, or an empty table when initial is nil.
func NewHolder(loader Loader, initial *Table) *Holder {
	if initial == nil {
		initial = Empty()
	}
	return &Holder{
		current:   atomic.NewPointer(initial),
		reloading: atomic.NewBool(false),
		loader:    loader,
	}
}

// Current returns the live table. It is never nil.
func (h *Holder) Current() *Table {
	return h.current.Load()
}

// Swap installs t and returns the table it replaced.
func (h *Holder) Swap(t *Table) *Table {
	if t == nil {
		t = Empty()
	}
	return h.current.Swap(t)
}

// Reload asks the loader for a new table and installs it. changed is false when the loaded
// version equals the live one, in which case the live table is kept.
func (h *Holder) Reload(ctx context.Context) (version string, changed bool, err error) {
	if h.loader == nil {
		return h.Current().Version(), false, errors.New("no reference loader configured")
	}
	if !h.reloading.CompareAndSwap(false, true) {
		return h.Current().Version(), false, ErrReloadInProgress
	}
	defer h.reloading.Store(false)

	t, err := h.loader.Load(ctx)
	if err != nil {
		return h.Current().Version(), false, fmt.Errorf("failed to reload reference data: %w", err)
	}
	if t.Version() == h.Current().Version() {
		return t.Version(), false, nil
	}
	h.Swap(t)
	return t.Version(), true, nil
}
