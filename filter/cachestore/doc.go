// Filter component for caching immutable lookups (as raw bytes) with a fixed TTL and purging.
//
// Includes an interface and implementations using redis and in-process memory.
//
// The content resolver uses this to avoid re-fetching transaction metadata and bodies from the gateway. Arweave transactions never change once mined, so the TTL bounds memory, not staleness.
package cachestore
