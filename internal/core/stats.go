package core

// Stats is a point-in-time snapshot of one tag's counters, as spec.md §3
// defines it. The stats actor (internal/actor) holds the live, mutable
// version of this value behind atomic counters; Stats itself is a plain
// value returned by Get/Submit/Fetch.
type Stats struct {
	TM        int64  // unix seconds of the snapshot
	Pkts      uint64 // records successfully decoded and forwarded
	Bytes     uint64 // bytes of the original payload for those records
	Hits      uint64 // cache hits (Cache tasks)
	Miss      uint64 // cache misses
	Empty     uint64 // empty/skippable payloads (e.g. opensky null time_position)
	Err       uint64 // decode/transport errors, record dropped
	Reconnect uint64 // streaming reconnect attempts
}

// Add returns the element-wise sum of s and o. Used by Job.Run
// (internal/job) to combine the Stats each of a job's workers reports.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		TM:        o.TM,
		Pkts:      s.Pkts + o.Pkts,
		Bytes:     s.Bytes + o.Bytes,
		Hits:      s.Hits + o.Hits,
		Miss:      s.Miss + o.Miss,
		Empty:     s.Empty + o.Empty,
		Err:       s.Err + o.Err,
		Reconnect: s.Reconnect + o.Reconnect,
	}
}
