// Package resolver implements agent discovery, the DNS analogue for agent
// handles.
//
// # Lookup Order
//
// Resolve walks three levels, cheapest first:
//
//  1. Record cache (L1) - TTL-bounded, like a DNS resolver cache
//  2. Local registry (L2) - in-memory map, seeded from a registry.Store
//     or populated directly via RegisterLocal
//  3. Remote registry (L3) - HTTP lookup by flat ID, bounded to 5 seconds
//
// A cache hit never touches the local registry or the network. Local
// lookups are deliberately permissive: beyond exact key variants, a
// substring containment match in either direction resolves partial and
// alias handles. Remote failures are absorbed and reported as a miss;
// discovery is best-effort by design.
//
// # Discovery
//
// Beyond point lookups the resolver offers search and neighborhood
// discovery:
//
//	records := r.Find("code-review python", 10, handle.ScopeGlobal)
//	neighbors := r.DiscoverNeighbors(ctx, "@claude.code-assistant.agent", true, true, 5)
//	agents := r.BroadcastDiscover(ctx, []string{"research", "vision"}, 3*time.Second)
//
// Find ranks by a weighted token score: tags 10, languages 5, frameworks 3,
// description 1. Ties keep registration order.
//
// # Lifecycle
//
// Construct one Resolver at startup and share it; all methods are safe for
// concurrent use. There is no global instance.
//
//	r := resolver.New(resolver.Options{RegistryURL: cfg.Resolver.RegistryURL})
//	rec, ok := r.Resolve(ctx, "@claude.code-assistant.agent")
package resolver
