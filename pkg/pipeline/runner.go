package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pipelayout/pkg/cache"
	"github.com/matzehuels/pipelayout/pkg/graph"
	"github.com/matzehuels/pipelayout/pkg/layout"
	"github.com/matzehuels/pipelayout/pkg/observability"
)

// Runner executes pipeline stages with caching.
//
// A Runner holds no per-run state; one Runner can serve concurrent requests
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-stage cache TTLs when positive.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer uses
// [cache.DefaultKeyer] and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs layout, sequence and render for p.
func (r *Runner) Execute(ctx context.Context, p *graph.Pipeline, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{PipelineHash: HashPipeline(p)}
	result.Stats.Steps = p.Len()
	result.Stats.Edges = len(p.Edges())

	// Stage 1: Layout
	start := time.Now()
	res, hit, err := r.LayoutWithCacheInfo(ctx, p, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(start)
	result.Stats.Components = len(res.Components)
	result.CacheInfo.LayoutHit = hit

	r.Logger.Info("computed layout",
		"steps", p.Len(),
		"components", len(res.Components),
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	positioned, err := Positioned(p, res)
	if err != nil {
		return nil, fmt.Errorf("apply layout: %w", err)
	}
	result.Pipeline = positioned

	// Stage 2: Sequence
	start = time.Now()
	seq, hit, err := r.SequenceWithCacheInfo(ctx, p, opts)
	if err != nil {
		return nil, fmt.Errorf("sequence: %w", err)
	}
	result.Sequence = seq
	result.Stats.SequenceTime = time.Since(start)
	result.CacheInfo.SequenceHit = hit

	r.Logger.Debug("computed sequence", "steps", len(seq), "cached", hit)

	// Stage 3: Render
	start = time.Now()
	artifacts, err := r.Render(ctx, positioned, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes the layout of p, consulting the cache first
// unless opts.Refresh is set. The boolean reports a cache hit.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, p *graph.Pipeline, opts Options) (*layout.Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	key := r.Keyer.LayoutKey(HashPipeline(p), opts.LayoutKeyOpts())
	if !opts.Refresh {
		var cached layout.Result
		if r.lookup(ctx, "layout", key, &cached) {
			return &cached, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, p.Len())
	start := time.Now()
	res, err := ComputeLayout(p, opts)
	components := 0
	if res != nil {
		components = len(res.Components)
	}
	hooks.OnLayoutComplete(ctx, p.Len(), components, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	r.store(ctx, "layout", key, res, r.ttl(cache.LayoutTTL))
	return res, false, nil
}

// Layout is [Runner.LayoutWithCacheInfo] without the cache hit info.
func (r *Runner) Layout(ctx context.Context, p *graph.Pipeline, opts Options) (*layout.Result, error) {
	res, _, err := r.LayoutWithCacheInfo(ctx, p, opts)
	return res, err
}

// SequenceWithCacheInfo computes an execution order for p, consulting the
// cache first unless opts.Refresh is set.
func (r *Runner) SequenceWithCacheInfo(ctx context.Context, p *graph.Pipeline, opts Options) ([]string, bool, error) {
	key := r.Keyer.SequenceKey(HashPipeline(p))
	if !opts.Refresh {
		var cached []string
		if r.lookup(ctx, "sequence", key, &cached) {
			return cached, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnSequenceStart(ctx, p.Len())
	start := time.Now()
	seq, err := ComputeSequence(p)
	hooks.OnSequenceComplete(ctx, p.Len(), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	r.store(ctx, "sequence", key, seq, r.ttl(cache.SequenceTTL))
	return seq, false, nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// Sequence is [Runner.SequenceWithCacheInfo] without the cache hit info.
func (r *Runner) Sequence(ctx context.Context, p *graph.Pipeline, opts Options) ([]string, error) {
	seq, _, err := r.SequenceWithCacheInfo(ctx, p, opts)
	return seq, err
}

// Render renders a positioned pipeline in every requested format.
// Artifacts are cheap to rebuild from a cached layout and are not cached.
func (r *Runner) Render(ctx context.Context, positioned *graph.Pipeline, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		one := opts
		one.Formats = []string{format}

		hooks.OnRenderStart(ctx, format)
		start := time.Now()
		out, err := Render(ctx, positioned, one)
		hooks.OnRenderComplete(ctx, format, len(out[format]), time.Since(start), err)
		if err != nil {
			return nil, err
		}
		artifacts[format] = out[format]
	}
	return artifacts, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// HashPipeline returns the SHA-256 of p's topology. Titles, parameters and
// stored positions do not contribute.
func HashPipeline(p *graph.Pipeline) string {
	return cache.Hash(graph.MarshalTopology(p))
}

// lookup decodes a cached entry into v and reports whether it succeeded.
// Backend errors and undecodable entries count as misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string, v any) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
	}
	if err == nil && hit && json.Unmarshal(data, v) == nil {
		observability.Cache().OnCacheHit(ctx, keyType)
		return true
	}
	observability.Cache().OnCacheMiss(ctx, keyType)
	return false
}

func (r *Runner) store(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
