package goselect

import (
	"log/slog"

	"github.com/sandrolain/goselect/pkg/adapter"
	"github.com/sandrolain/goselect/pkg/cache"
)

// Engine compiles and matches selectors with a fixed configuration. With
// caching enabled it keeps compiled selectors in an LRU keyed by source, so
// hot selectors are parsed once.
//
//	engine := goselect.New(
//	    goselect.WithAdapter(htmladapter.Default),
//	    goselect.WithHTML(),
//	    goselect.WithCaching(true),
//	)
//	links, err := engine.SelectAll(doc, "a[href]")
type Engine struct {
	cfg    *Config
	logger *slog.Logger
	cache  *cache.Cache[string, *Selector] // non-nil when caching is enabled
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	cfg := newConfig(opts)

	c := cfg.Cache
	if c == nil && cfg.Caching {
		c = cache.New[string, *Selector](cfg.CacheSize)
	}

	return &Engine{
		cfg:    cfg,
		logger: cfg.Logger,
		cache:  c,
	}
}

// Cache returns the compiled-selector cache, or nil if caching is disabled.
func (e *Engine) Cache() *cache.Cache[string, *Selector] {
	return e.cache
}

// Compile returns the compiled selector for source.
func (e *Engine) Compile(source string) (*Selector, error) {
	if e.cache == nil {
		return e.compile(source)
	}
	if sel, ok := e.cache.Get(source); ok {
		e.logger.Debug("selector cache hit", "selector", source)
		return sel, nil
	}
	return e.cache.GetOrCompile(source, func() (*Selector, error) {
		return e.compile(source)
	})
}

func (e *Engine) compile(source string) (*Selector, error) {
	sel, err := compile(source, e.cfg)
	if err != nil {
		e.logger.Debug("selector compile failed", "selector", source, "error", err)
		return nil, err
	}
	e.logger.Debug("selector compiled", "selector", source, "alternatives", len(sel.list.Selectors))
	return sel, nil
}

// Is reports whether node matches selector.
func (e *Engine) Is(node adapter.Node, selector string) (bool, error) {
	sel, err := e.Compile(selector)
	if err != nil {
		return false, err
	}
	return sel.Match(node), nil
}

// EachSelect calls visit for every match under scope.
func (e *Engine) EachSelect(scope adapter.Node, selector string, visit func(adapter.Node) bool) error {
	sel, err := e.Compile(selector)
	if err != nil {
		return err
	}
	sel.Each(scope, visit)
	return nil
}

// Select returns the first match under scope, or nil.
func (e *Engine) Select(scope adapter.Node, selector string) (adapter.Node, error) {
	sel, err := e.Compile(selector)
	if err != nil {
		return nil, err
	}
	return sel.Select(scope), nil
}

// SelectAll returns every match under scope in document order.
func (e *Engine) SelectAll(scope adapter.Node, selector string) ([]adapter.Node, error) {
	sel, err := e.Compile(selector)
	if err != nil {
		return nil, err
	}
	return sel.SelectAll(scope), nil
}
