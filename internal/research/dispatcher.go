package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/voyage-ai/voyage/internal/config"
	"github.com/voyage-ai/voyage/internal/tool"
	"github.com/voyage-ai/voyage/internal/trip"
)

// Dispatcher runs the research fan-out against the capability registry.
// Bundles are cached by request fingerprint so a replan within the TTL
// reuses research instead of re-dispatching.
type Dispatcher struct {
	registry tool.Registry
	cfg      config.ResearchConfig
	limiter  *rate.Limiter
	cache    *gocache.Cache
	logger   *slog.Logger
}

// NewDispatcher builds a dispatcher over the registry.
func NewDispatcher(registry tool.Registry, cfg config.ResearchConfig, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		registry: registry,
		cfg:      cfg,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSecond), int(cfg.RatePerSecond)+1),
		cache:    gocache.New(cfg.CacheTTL, cfg.CacheTTL/2),
		logger:   logger.With("component", "research"),
	}
}

// SelectKinds returns the capability subset worth dispatching for the
// request: visa research is skipped for domestic trips and transport search
// needs a known origin.
func SelectKinds(req *trip.Request) []tool.Kind {
	kinds := make([]tool.Kind, 0, len(tool.Kinds()))
	for _, kind := range tool.Kinds() {
		switch kind {
		case tool.KindVisa:
			if req.Domestic {
				continue
			}
		case tool.KindTransportSearch:
			if req.Origin == "" {
				continue
			}
		}
		kinds = append(kinds, kind)
	}
	return kinds
}

// Research dispatches every selected capability concurrently and joins the
// results into a bundle. Individual failures mark their slot; only a
// cancelled or fully timed-out fan-out returns an error.
func (d *Dispatcher) Research(ctx context.Context, req *trip.Request, hints ...tool.Hint) (*Bundle, error) {
	key := cacheKey(req, hints)
	if cached, ok := d.cache.Get(key); ok {
		bundle := cached.(*Bundle)
		d.logger.Debug("research bundle cache hit",
			"trip_id", req.ID, "fingerprint", bundle.Fingerprint)
		return bundle, nil
	}

	kinds := SelectKinds(req)
	query := tool.NewQuery(req).WithHints(hints...)

	bundle := &Bundle{
		TripID:      req.ID,
		Fingerprint: req.Fingerprint(),
		Requested:   kinds,
		Results:     make(map[tool.Kind]tool.Payload, len(kinds)),
		Failures:    make(map[tool.Kind]string),
		CreatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, d.cfg.OverallTimeout)
	defer cancel()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range kinds {
		g.Go(func() error {
			if err := d.limiter.Wait(gctx); err != nil {
				return err
			}

			toolCtx, toolCancel := context.WithTimeout(gctx, d.cfg.ToolTimeout)
			payload, err := d.registry.Execute(toolCtx, kind, query)
			toolCancel()

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Record and continue; a single capability failing must not
				// sink the rest of the fan-out.
				bundle.Failures[kind] = err.Error()
				d.logger.Warn("research capability failed",
					"trip_id", req.ID, "kind", kind, "error", err)
				return nil
			}
			bundle.Results[kind] = payload
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("research fan-out aborted: %w", err)
	}

	d.logger.Info("research bundle assembled",
		"trip_id", req.ID,
		"requested", len(kinds),
		"failed", len(bundle.Failures),
		"completeness", fmt.Sprintf("%.2f", bundle.Completeness()))

	d.cache.Set(key, bundle, gocache.DefaultExpiration)
	return bundle, nil
}

// Invalidate drops any cached bundle for the request so the next dispatch
// hits the tools again.
func (d *Dispatcher) Invalidate(req *trip.Request) {
	d.cache.Delete(cacheKey(req, nil))
}

func cacheKey(req *trip.Request, hints []tool.Hint) string {
	if len(hints) == 0 {
		return req.Fingerprint()
	}
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, string(h))
	}
	return req.Fingerprint() + "|" + strings.Join(parts, ",")
}
