package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/famtree/pkg/cache"
	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/layout"
	"github.com/matzehuels/famtree/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs layout and render on a copy of p.
func (r *Runner) Execute(ctx context.Context, p *family.Project, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}
	result.Stats.People = len(p.People)
	result.Stats.Relations = len(p.Relations)

	// Stage 1: Layout
	layoutStart := time.Now()
	res, positioned, err := r.Layout(ctx, p, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Project = positioned
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	if res != nil {
		result.Stats.Warnings = len(res.Warnings)
		r.Logger.Info("computed layout",
			"preset", opts.Preset,
			"people", len(res.Positions),
			"components", len(res.Components),
			"duration", result.Stats.LayoutTime)
	}

	// Stage 2: Render
	renderStart := time.Now()
	hash, err := LayoutHash(positioned, opts.Config())
	if err != nil {
		return nil, err
	}
	result.LayoutHash = hash
	artifacts, hit, err := r.renderWithCacheInfo(ctx, positioned, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout positions a copy of p. With SkipLayout the copy is returned
// unchanged and the result is nil. Layout warnings are logged at warn level.
func (r *Runner) Layout(ctx context.Context, p *family.Project, opts Options) (*layout.Result, *family.Project, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}
	positioned := p.Clone()
	if opts.SkipLayout {
		return nil, positioned, nil
	}

	var lopts []layout.Option
	if opts.PreserveManual {
		lopts = append(lopts, layout.WithPreserveManual())
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Preset, len(positioned.People))
	start := time.Now()
	res, err := layout.ArrangeProject(positioned, opts.Config(), lopts...)
	if err != nil {
		hooks.OnLayoutComplete(ctx, opts.Preset, 0, 0, time.Since(start), err)
		return nil, nil, err
	}
	hooks.OnLayoutComplete(ctx, opts.Preset, len(res.Positions), len(res.Warnings), time.Since(start), nil)

	for _, w := range res.Warnings {
		r.Logger.Warn("layout", "code", w.Code, "msg", w.Message, "people", len(w.People))
	}
	return res, positioned, nil
}

// Render draws an already positioned project in every requested format,
// using cached artifacts when all formats are available.
func (r *Runner) Render(ctx context.Context, p *family.Project, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hash, err := LayoutHash(p, opts.Config())
	if err != nil {
		return nil, err
	}
	artifacts, _, err := r.renderWithCacheInfo(ctx, p, hash, opts)
	return artifacts, err
}

func (r *Runner) renderWithCacheInfo(ctx context.Context, p *family.Project, hash string, opts Options) (map[string][]byte, bool, error) {
	cacheHooks := observability.Cache()

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Debug("cache read failed", "key", key, "err", err)
		}
		if err != nil || !hit {
			cacheHooks.OnCacheMiss(ctx, key)
			break
		}
		cacheHooks.OnCacheHit(ctx, key)
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	rendered, err := RenderArtifacts(ctx, p, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Debug("cache write failed", "key", key, "err", err)
			continue
		}
		cacheHooks.OnCacheSet(ctx, key, len(data))
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// hashInput is everything about a positioned project that shows up in a
// drawing. Metadata such as timestamps is left out so saving a project does
// not invalidate its artifacts.
type hashInput struct {
	Config    layout.Config     `json:"config"`
	People    []*family.Person  `json:"people"`
	Relations []family.Relation `json:"relations"`
	UI        family.UISettings `json:"ui"`
}

// LayoutHash returns the content hash of a positioned project drawn with
// cfg's card size.
func LayoutHash(p *family.Project, cfg layout.Config) (string, error) {
	data, err := json.Marshal(hashInput{Config: cfg, People: p.People, Relations: p.Relations, UI: p.UI})
	if err != nil {
		return "", fmt.Errorf("serialize layout for cache key: %w", err)
	}
	return cache.Hash(data), nil
}
