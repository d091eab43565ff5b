// Package cache provides a small generic TTL cache with stampede protection.
//
// Concurrent misses for the same key are collapsed with singleflight, so an
// expensive loader (such as counting every catalog table) runs once per TTL
// window no matter how many requests arrive at the same time.
package cache
