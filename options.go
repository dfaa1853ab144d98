package goselect

import (
	"log/slog"

	"github.com/sandrolain/goselect/pkg/adapter"
	"github.com/sandrolain/goselect/pkg/adapter/etreeadapter"
	"github.com/sandrolain/goselect/pkg/cache"
	"github.com/sandrolain/goselect/pkg/compiler"
	"github.com/sandrolain/goselect/pkg/query"
)

// Config holds the configuration built from a list of Options.
type Config struct {
	// PseudoClasses extend or override the built-in pseudo-classes.
	PseudoClasses []compiler.PseudoClassDef
	// Adapter gives access to the tree. Defaults to the etree adapter.
	Adapter adapter.Adapter
	// Substitutions resolve "$name" values in selectors.
	Substitutions map[string]string
	// HTML switches the base matching options to query.HTMLOptions.
	HTML bool
	// Scope is the :scope node for Is. Defaults to the document node.
	Scope adapter.Node
	// MaxDepth limits the nesting of selector arguments. 0 keeps the parser
	// default.
	MaxDepth int
	// Logger for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
	// Caching enables the compiled-selector cache of an Engine.
	Caching bool
	// CacheSize sets the cache capacity. Defaults to cache.DefaultCapacity.
	CacheSize int
	// Cache is an external compiled-selector cache. If non-nil, caching is
	// implicitly enabled. Share it only between engines with the same
	// pseudo-classes and matching options.
	Cache *cache.Cache[string, *Selector]

	// edits are applied, in order, on top of the default or HTML options.
	edits []func(*query.Options)
}

// Option configures selector compilation and matching.
type Option func(*Config)

func newConfig(opts []Option) *Config {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Adapter == nil {
		cfg.Adapter = etreeadapter.Default
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}

// matchOptions builds the query options: the default or HTML base with the
// explicit edits on top.
func (cfg *Config) matchOptions() query.Options {
	opts := query.DefaultOptions()
	if cfg.HTML {
		opts = query.HTMLOptions()
	}
	for _, edit := range cfg.edits {
		edit(&opts)
	}
	return opts
}

func (cfg *Config) registry() *compiler.Registry {
	if len(cfg.PseudoClasses) == 0 {
		return builtinRegistry
	}
	r := builtinRegistry.Clone()
	r.Register(cfg.PseudoClasses...)
	return r
}

// builtinRegistry is never mutated; configurations that add pseudo-classes
// work on a clone.
var builtinRegistry = compiler.DefaultRegistry()

// WithPseudoClass registers a single pseudo-class.
func WithPseudoClass(def compiler.PseudoClassDef) Option {
	return func(cfg *Config) {
		cfg.PseudoClasses = append(cfg.PseudoClasses, def)
	}
}

// WithPseudoClasses registers several pseudo-classes. Later definitions
// replace earlier ones with the same name, built-ins included.
func WithPseudoClasses(defs ...compiler.PseudoClassDef) Option {
	return func(cfg *Config) {
		cfg.PseudoClasses = append(cfg.PseudoClasses, defs...)
	}
}

// WithAdapter sets the tree adapter.
func WithAdapter(a adapter.Adapter) Option {
	return func(cfg *Config) {
		cfg.Adapter = a
	}
}

// WithSubstitutions adds values for "$name" tokens. Repeated use merges the
// maps.
func WithSubstitutions(subs map[string]string) Option {
	return func(cfg *Config) {
		if cfg.Substitutions == nil {
			cfg.Substitutions = make(map[string]string, len(subs))
		}
		for k, v := range subs {
			cfg.Substitutions[k] = v
		}
	}
}

// WithTagNameCase sets how tag names are compared.
func WithTagNameCase(mode adapter.CaseMode) Option {
	return edit(func(o *query.Options) { o.TagNameCase = mode })
}

// WithAttributeNameCase sets how attribute names are compared.
func WithAttributeNameCase(mode adapter.CaseMode) Option {
	return edit(func(o *query.Options) { o.AttributeNameCase = mode })
}

// WithCaseSensitiveAttributeValues replaces the set of attributes whose
// values ignore the "i" modifier.
func WithCaseSensitiveAttributeValues(names ...string) Option {
	return edit(func(o *query.Options) { o.CaseSensitiveAttributeValues = query.NewStringSet(names...) })
}

// WithCheckedElements marks nodes as matching :checked.
func WithCheckedElements(nodes ...adapter.Node) Option {
	return edit(func(o *query.Options) { o.CheckedElements = query.NewNodeSet(nodes...) })
}

// WithDisabledElements marks nodes as matching :disabled.
func WithDisabledElements(nodes ...adapter.Node) Option {
	return edit(func(o *query.Options) { o.DisabledElements = query.NewNodeSet(nodes...) })
}

// WithHTML switches to HTML matching: case-insensitive tag and attribute
// names and the HTML list of case-sensitive attribute values. Explicit
// options win regardless of their position.
func WithHTML() Option {
	return func(cfg *Config) {
		cfg.HTML = true
	}
}

// WithScope sets the :scope node used by Is.
func WithScope(scope adapter.Node) Option {
	return func(cfg *Config) {
		cfg.Scope = scope
	}
}

// WithMaxDepth limits how deeply selector arguments may nest.
func WithMaxDepth(depth int) Option {
	return func(cfg *Config) {
		cfg.MaxDepth = depth
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = logger
	}
}

// WithCaching enables or disables the compiled-selector cache of an Engine.
// To control the cache size use WithCacheSize; to supply your own cache use
// WithCache.
func WithCaching(enabled bool) Option {
	return func(cfg *Config) {
		cfg.Caching = enabled
	}
}

// WithCacheSize sets the maximum number of cached selectors.
// Only effective when combined with WithCaching(true).
func WithCacheSize(size int) Option {
	return func(cfg *Config) {
		cfg.CacheSize = size
	}
}

// WithCache attaches an external compiled-selector cache.
func WithCache(c *cache.Cache[string, *Selector]) Option {
	return func(cfg *Config) {
		cfg.Cache = c
	}
}

func edit(fn func(*query.Options)) Option {
	return func(cfg *Config) {
		cfg.edits = append(cfg.edits, fn)
	}
}
