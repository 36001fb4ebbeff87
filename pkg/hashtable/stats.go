package hashtable

// Stats summarizes how entries are spread over buckets.
type Stats struct {
	Size          int
	Entries       int
	Collisions    int
	UsedBuckets   int
	LongestChain  int
	LoadFactor    float64
	AvgUsedLength float64
}

// Stats walks the buckets once and reports their occupancy.
func (t *Table[K, V]) Stats() Stats {
	s := Stats{
		Size:       len(t.buckets),
		Entries:    t.entries,
		Collisions: t.collisions,
		LoadFactor: float64(t.entries) / float64(len(t.buckets)),
	}
	for _, b := range t.buckets {
		if len(b) == 0 {
			continue
		}
		s.UsedBuckets++
		if len(b) > s.LongestChain {
			s.LongestChain = len(b)
		}
	}
	if s.UsedBuckets > 0 {
		s.AvgUsedLength = float64(s.Entries) / float64(s.UsedBuckets)
	}
	return s
}
