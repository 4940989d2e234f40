// ABOUTME: Agent resolver, the DNS analogue for agent handles
// ABOUTME: Cache lookup, local-registry probing, then remote registry fallback

package resolver

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/agentmcp/agentnet/internal/handle"
	"github.com/agentmcp/agentnet/internal/registry"
)

// ErrAgentNotFound indicates the handle could not be resolved anywhere.
var ErrAgentNotFound = errors.New("agent not found")

// DefaultQueryTimeout bounds a single remote registry query.
const DefaultQueryTimeout = 5 * time.Second

// Options configures a Resolver. The zero value selects the public registry
// with default cache settings.
type Options struct {
	// RegistryURL overrides the remote registry base URL.
	RegistryURL string
	// CacheTTL overrides the record cache TTL.
	CacheTTL time.Duration
	// DisableCache turns the record cache off. It is enabled by default.
	DisableCache bool
	// Client overrides the remote registry client. Nil selects an HTTP
	// client against RegistryURL.
	Client registry.Client
	// Logger receives resolution diagnostics. Nil selects slog.Default.
	Logger *slog.Logger
}

// Resolver maps agent handles to records. One instance is constructed at
// startup and shared; all methods are safe for concurrent use.
type Resolver struct {
	mu    sync.RWMutex
	local map[string]handle.Record

	cache        *Cache
	cacheEnabled bool
	client       registry.Client
	queryTimeout time.Duration
	logger       *slog.Logger
}

// New creates a resolver with the given options.
func New(opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "resolver")
	}
	client := opts.Client
	if client == nil {
		client = registry.NewHTTPClient(opts.RegistryURL)
	}
	return &Resolver{
		local:        make(map[string]handle.Record),
		cache:        NewCache(opts.CacheTTL),
		cacheEnabled: !opts.DisableCache,
		client:       client,
		queryTimeout: DefaultQueryTimeout,
		logger:       logger,
	}
}

// Cache exposes the record cache. Test hook for clock injection.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// RegisterLocal adds a record to the local registry under its canonical
// handle string. Used for mock wiring and pre-seeded lookups.
func (r *Resolver) RegisterLocal(rec handle.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.local[rec.Handle.String()] = rec
}

// SeedFromStore loads every persisted record into the local registry.
func (r *Resolver) SeedFromStore(ctx context.Context, store *registry.Store) error {
	records, err := store.List(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range records {
		r.local[rec.Handle.String()] = rec
	}
	r.logger.Info("seeded local registry", "records", len(records))
	return nil
}

// Resolve maps a handle to its record. Lookup order: cache, local registry,
// remote registry. Returns false when the handle cannot be resolved; remote
// failures degrade to a miss and are never surfaced as errors.
func (r *Resolver) Resolve(ctx context.Context, rawHandle string) (handle.Record, bool) {
	normalized := strings.TrimLeft(rawHandle, "@")

	// L1: cache. A hit never touches the local registry or the network.
	if r.cacheEnabled {
		if rec, ok := r.cache.Get(normalized); ok {
			r.logger.Debug("cache hit", "handle", normalized)
			return rec, true
		}
	}

	// L2: local registry, probed under several key variants. Local hits
	// bypass cache population; the registry map is already in memory.
	if rec, ok := r.lookupLocal(normalized); ok {
		return rec, true
	}

	// L3: remote registry by flat ID.
	queryCtx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	flatID := handle.Parse(normalized).FlatID()
	rec, err := r.client.Resolve(queryCtx, flatID)
	if err != nil {
		r.logger.Debug("registry query failed", "handle", normalized, "error", err)
		return handle.Record{}, false
	}

	if r.cacheEnabled {
		r.cache.Put(normalized, *rec)
	}
	return *rec, true
}

// lookupLocal probes the local registry under the raw handle with and
// without the @ prefix and with .agent/.global suffixes stripped, then falls
// back to substring containment against every key in either direction. The
// permissive fallback supports partial and alias handles at the cost of
// false positives when handles are substrings of one another.
func (r *Resolver) lookupLocal(normalized string) (handle.Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	variants := []string{
		"@" + normalized,
		normalized,
		strings.ReplaceAll(normalized, ".agent", ""),
		strings.ReplaceAll(normalized, ".global", ""),
	}
	for _, key := range variants {
		if rec, ok := r.local[key]; ok {
			return rec, true
		}
	}

	// Sorted scan keeps ambiguous containment matches deterministic.
	keys := make([]string, 0, len(r.local))
	for k := range r.local {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(k, normalized) || strings.Contains(normalized, k) {
			return r.local[k], true
		}
	}
	return handle.Record{}, false
}

// Find searches known agents by capability query and returns up to limit
// records, most relevant first. The scope parameter reserves scoped search
// for registries that partition by namespace; the local registry is flat.
func (r *Resolver) Find(query string, limit int, scope handle.Scope) []handle.Record {
	_ = scope

	// A record qualifies when the whole query substring-matches a declared
	// capability, or when any query token scores against it. Token matching
	// keeps multi-word queries like "research bio" useful.
	results := make([]handle.Record, 0)
	for _, rec := range r.snapshotLocal() {
		if rec.Capabilities.Matches(query) || scoreMatch(rec, query) > 0 {
			results = append(results, rec)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return scoreMatch(results[i], query) > scoreMatch(results[j], query)
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Connect resolves a handle and returns its endpoint URL. Returns
// ErrAgentNotFound when the handle does not resolve.
func (r *Resolver) Connect(ctx context.Context, rawHandle string) (string, error) {
	rec, ok := r.Resolve(ctx, rawHandle)
	if !ok {
		return "", ErrAgentNotFound
	}
	return rec.Endpoint.URL(), nil
}

// DiscoverNeighbors returns agents related to the anchor handle: same
// organization, or overlapping capability tags. An organization match
// short-circuits the capability check for that candidate.
func (r *Resolver) DiscoverNeighbors(ctx context.Context, rawHandle string, sameOrg, sameCapability bool, limit int) []handle.Record {
	anchor, ok := r.Resolve(ctx, rawHandle)
	if !ok {
		return nil
	}

	results := make([]handle.Record, 0)
	for _, other := range r.snapshotLocal() {
		if other.Handle.Name == anchor.Handle.Name {
			continue
		}
		if sameOrg && anchor.Handle.Org == other.Handle.Org {
			results = append(results, other)
			continue
		}
		if sameCapability && tagsIntersect(anchor.Capabilities.Tags, other.Capabilities.Tags) {
			results = append(results, other)
		}
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// broadcastLimit caps both the per-capability search and the merged result
// of a broadcast discovery.
const broadcastLimit = 10

// BroadcastDiscover searches once per capability and merges the results,
// deduplicated by flat ID with first occurrence winning. The timeout
// reserves room for a true local-network broadcast; the registry-backed
// search completes synchronously.
func (r *Resolver) BroadcastDiscover(ctx context.Context, capabilities []string, timeout time.Duration) []handle.Record {
	_ = timeout

	seen := make(map[string]bool)
	unique := make([]handle.Record, 0)
	for _, capability := range capabilities {
		for _, rec := range r.Find(capability, broadcastLimit, handle.ScopeGlobal) {
			id := rec.Handle.FlatID()
			if seen[id] {
				continue
			}
			seen[id] = true
			unique = append(unique, rec)
		}
	}

	if len(unique) > broadcastLimit {
		unique = unique[:broadcastLimit]
	}
	return unique
}

// snapshotLocal copies the local registry contents in sorted key order so
// discovery results are deterministic.
func (r *Resolver) snapshotLocal() []handle.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.local))
	for k := range r.local {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	records := make([]handle.Record, 0, len(keys))
	for _, k := range keys {
		records = append(records, r.local[k])
	}
	return records
}

// tagsIntersect reports whether the two tag sets share any tag.
func tagsIntersect(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	for _, t := range b {
		if set[t] {
			return true
		}
	}
	return false
}
