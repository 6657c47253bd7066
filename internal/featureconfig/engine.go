// Package featureconfig implements the selection and expansion engine: it
// turns a toolchain.Graph plus a requested set of feature/action-config
// names into a FeatureConfiguration, caching the result the way a build
// tool needs to — the same request set recurs across thousands of actions
// in a single build and re-running the fixed-point selection for each one
// would be wasted work.
package featureconfig

import (
	"context"
	"path"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/buildtool/ccfeatures/internal/ctxlog"
	"github.com/buildtool/ccfeatures/internal/toolchain"
	"github.com/buildtool/ccfeatures/internal/variables"
)

const defaultCacheSize = 10000

// MetricsRecorder receives selection and expansion outcomes. The default
// Engine uses a no-op recorder; WithMetrics installs a real one.
type MetricsRecorder interface {
	CacheHit()
	CacheMiss()
	Expansion(kind string)
}

type noopMetrics struct{}

func (noopMetrics) CacheHit()          {}
func (noopMetrics) CacheMiss()         {}
func (noopMetrics) Expansion(_ string) {}

// Option configures an Engine at Build time.
type Option func(*Engine)

// WithMetrics installs a MetricsRecorder, overriding the no-op default.
func WithMetrics(m MetricsRecorder) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithCacheSize overrides the default selection-cache capacity.
func WithCacheSize(size int) Option {
	return func(e *Engine) { e.cacheSize = size }
}

// Engine holds a built Graph plus a bounded cache of past selections. An
// Engine is safe for concurrent use.
type Engine struct {
	graph     *toolchain.Graph
	cache     *lru.Cache[string, *FeatureConfiguration]
	group     singleflight.Group
	metrics   MetricsRecorder
	cacheSize int
}

// Build validates record, constructs its selectable graph, and returns a
// ready-to-query Engine. toolRoot resolves every action config's tool
// paths, mirroring the source's crosstool-top parameter.
func Build(record toolchain.ConfigurationRecord, toolRoot string, opts ...Option) (*Engine, error) {
	e := &Engine{metrics: noopMetrics{}, cacheSize: defaultCacheSize}
	for _, opt := range opts {
		opt(e)
	}

	graph, err := toolchain.Build(record, toolRoot)
	if err != nil {
		return nil, err
	}
	e.graph = graph

	cache, err := lru.New[string, *FeatureConfiguration](e.cacheSize)
	if err != nil {
		return nil, err
	}
	e.cache = cache

	return e, nil
}

// Select resolves requested against the graph's defaults and relations,
// returning the same *FeatureConfiguration for repeat calls with an
// equivalent (order- and duplicate-insensitive) requested set. Concurrent
// calls with the same set collapse into a single computation.
func (e *Engine) Select(ctx context.Context, requested []string) (*FeatureConfiguration, error) {
	key := canonicalKey(requested)

	if fc, ok := e.cache.Get(key); ok {
		e.metrics.CacheHit()
		return fc, nil
	}
	e.metrics.CacheMiss()

	result, err, _ := e.group.Do(key, func() (interface{}, error) {
		fc, err := compute(e.graph, requested, e.metrics)
		if err != nil {
			return nil, err
		}
		e.cache.Add(key, fc)
		return fc, nil
	})
	if err != nil {
		ctxlog.FromContext(ctx).Debug("feature selection failed", "error", err)
		return nil, err
	}
	return result.(*FeatureConfiguration), nil
}

// HasPattern reports whether an artifact-name pattern is configured for
// category.
func (e *Engine) HasPattern(category string) bool {
	_, ok := e.graph.Pattern(category)
	return ok
}

// Defaults returns the names of the graph's default-enabled selectables,
// in declaration order.
func (e *Engine) Defaults() []string {
	idxs := e.graph.Defaults()
	names := make([]string, len(idxs))
	for i, idx := range idxs {
		names[i] = e.graph.Selectable(idx).Name
	}
	return names
}

// ArtifactName expands the naming pattern configured for category against
// outputName, then strips exactly one leading slash from the result — the
// source's Artifact.getExecPath()-relative convention leaves one behind
// that a repository-relative name never wants.
func (e *Engine) ArtifactName(category, outputName string) (string, error) {
	pattern, ok := e.graph.Pattern(category)
	if !ok {
		return "", &MissingArtifactPatternError{Category: category}
	}
	e.metrics.Expansion("artifact_name")

	scope := variables.NewScope(map[string]variables.Value{
		"output_name":      variables.String(outputName),
		"base_name":        variables.String(path.Base(outputName)),
		"output_directory": variables.String(path.Dir(outputName)),
	})
	name, err := pattern.Expand(scope)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(name, "/"), nil
}
