// Package generation issues monotonically increasing generation numbers per
// key so that work started for an older generation can detect that it has
// been superseded.
//
// An animated layout run for a view begins a new generation; every frame it
// produces is committed through a [Tracker], which runs the commit only while
// the run's [Token] is still current. A newer Begin for the same key makes
// all earlier tokens stale, so their frames are dropped instead of emitted.
//
// Two [Store] implementations are provided: [MemoryStore] for a single
// process and [RedisStore] for several API replicas sharing one Redis.
package generation
