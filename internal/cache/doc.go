// HDMeal API - School Meal, Schedule, and Timetable Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hdmeal-api

/*
Package cache provides a thread-safe, typed in-memory cache with TTL support.

The assembler uses it to hold the parsed views of the last successful assembly
pass (the snapshot) so requests inside the TTL skip the NEIS round trips:

	c := cache.New[*Snapshot]("snapshot", cfg.Cache.SnapshotTTL)
	c.Set("views", snap)
	if snap, ok := c.Get("views"); ok {
	    // serve from snapshot
	}

Expiration is checked lazily on Get; Cleanup sweeps every expired entry.
Hits and misses are exported as cache_hits_total and cache_misses_total,
labelled with the cache name. A non-positive TTL disables storage entirely.

# Thread Safety

All methods are safe for concurrent use. Entries are guarded by a
sync.RWMutex; statistics by their own mutex.
*/
package cache
