package patch

import (
	"go.uber.org/zap"
)

// Selector restricts patches to coordinate ranges. The zero value is not
// usable; build one with NewSelector or DefaultSelector.
type Selector struct {
	Engine     Engine
	Resolver   TimeResolver
	History    HistoryFormatter
	Reconciler Reconciler
	// Copy is the materialization policy used when a call doesn't pass
	// WithCopy.
	Copy   bool
	Logger *zap.Logger
}

// DefaultSelector uses the label engine, relative time resolution, call
// history and bounds reconciliation, and doesn't log.
func DefaultSelector() *Selector {
	return &Selector{
		Engine:     LabelEngine{},
		Resolver:   RelativeTimeResolver,
		History:    CallFormatter,
		Reconciler: BoundsReconciler,
		Logger:     zap.NewNop(),
	}
}

// NewSelector builds a default selector configured by cfg.
func NewSelector(cfg *Config) (*Selector, error) {
	s := DefaultSelector()
	if cfg == nil {
		return s, nil
	}
	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	s.Copy = cfg.Copy
	s.Logger = logger
	return s, nil
}

type selectOptions struct {
	copy *bool
}

// SelectOption configures a single Select call.
type SelectOption func(*selectOptions)

// WithCopy controls whether the selected data is copied into its own buffer
// so the source array can be released. Without a copy the result aliases
// the source data.
func WithCopy(copy bool) SelectOption {
	return func(o *selectOptions) { o.copy = &copy }
}

// Select returns p restricted to the constrained coordinate ranges, using
// DefaultSelector.
func Select(p *Patch, c Constraints, opts ...SelectOption) (*Patch, error) {
	return DefaultSelector().Select(p, c, opts...)
}

// Select is shorthand for Select(p, c, opts...).
func (p *Patch) Select(c Constraints, opts ...SelectOption) (*Patch, error) {
	return Select(p, c, opts...)
}

// Select returns p restricted to the constrained coordinate ranges. When the
// selection keeps every element, p itself is returned. Errors from the
// engine and time resolver are returned unwrapped.
func (s *Selector) Select(p *Patch, c Constraints, opts ...SelectOption) (*Patch, error) {
	o := selectOptions{copy: &s.Copy}
	for _, opt := range opts {
		opt(&o)
	}
	log := s.logger()

	ranges, err := Normalize(p, c, s.Resolver)
	if err != nil {
		return nil, err
	}

	sel, err := s.Engine.Select(p.labeled(), ranges)
	if err != nil {
		return nil, err
	}

	if sameShape(sel.Data.Shape(), p.data.Shape()) {
		log.Debug("selection is a no-op", zap.Strings("dims", p.dims), zap.Ints("shape", p.data.Shape()))
		return p, nil
	}

	data := sel.Data
	if *o.copy {
		log.Debug("copying selected data", zap.Int("elements", data.Size()))
		data = data.Copy()
	}

	attrs := sel.Attrs.Clone()
	attrs["history"] = append(p.attrs.History(), s.History.Format(p, "select", ranges))

	attrs, coords, err := s.Reconciler.Reconcile(attrs, sel.Coords, sel.Dims)
	if err != nil {
		return nil, err
	}

	out, err := New(data, p.dims, coords, attrs)
	if err != nil {
		return nil, err
	}
	log.Debug("selected patch",
		zap.Ints("from", p.data.Shape()),
		zap.Ints("to", data.Shape()),
		zap.Bool("copy", *o.copy),
	)
	return out, nil
}

func (s *Selector) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
