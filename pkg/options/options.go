package options

// DefaultOptions scans the built-in catalog with a ten character context window.
var DefaultOptions = DetectorOptions{
	ContextRadius: 10,
}

// RuleSpec is a rule as supplied by a caller. Category holds either the wire
// label or the English category name; the detector resolves it.
type RuleSpec struct {
	Original  string
	Corrected string
	Category  string
}

type DetectorOptions struct {
	Catalog       []RuleSpec // replaces the built-in catalog when non-nil
	ExtraRules    []RuleSpec // scanned after the catalog
	ContextRadius int        // characters kept on each side of a match
}

type Options interface {
	Apply(options *DetectorOptions)
}

type FuncConfig struct {
	ops func(options *DetectorOptions)
}

func (w FuncConfig) Apply(conf *DetectorOptions) {
	w.ops(conf)
}

func NewFuncOption(f func(options *DetectorOptions)) *FuncConfig {
	return &FuncConfig{ops: f}
}

// WithCatalog replaces the built-in catalog. Mostly useful in tests.
func WithCatalog(rules ...RuleSpec) Options {
	return NewFuncOption(func(options *DetectorOptions) {
		options.Catalog = append([]RuleSpec{}, rules...)
	})
}

// WithExtraRules appends rules after the catalog, e.g. custom rules loaded from Redis.
func WithExtraRules(rules ...RuleSpec) Options {
	return NewFuncOption(func(options *DetectorOptions) {
		options.ExtraRules = append(options.ExtraRules, rules...)
	})
}

func WithContextRadius(radius int) Options {
	return NewFuncOption(func(options *DetectorOptions) {
		if radius >= 0 {
			options.ContextRadius = radius
		}
	})
}

// Apply folds opts over DefaultOptions.
func Apply(opts ...Options) DetectorOptions {
	conf := DefaultOptions
	for _, o := range opts {
		if o != nil {
			o.Apply(&conf)
		}
	}
	return conf
}
