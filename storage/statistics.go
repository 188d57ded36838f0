package storage

// CfStatistics collects the read ops taken against one column family while
// resolving data.
type CfStatistics struct {
	// ProcessedKeys counts keys that were visible to the caller
	ProcessedKeys int

	Get           int
	Next          int
	Prev          int
	Seek          int
	SeekForPrev   int
	OverSeekBound int
}

// TotalOpCount returns the total number of point and iterator operations.
func (s *CfStatistics) TotalOpCount() int {
	return s.Get + s.Next + s.Prev + s.Seek + s.SeekForPrev
}

// Add merges other into s.
func (s *CfStatistics) Add(other *CfStatistics) {
	s.ProcessedKeys += other.ProcessedKeys
	s.Get += other.Get
	s.Next += other.Next
	s.Prev += other.Prev
	s.Seek += other.Seek
	s.SeekForPrev += other.SeekForPrev
	s.OverSeekBound += other.OverSeekBound
}

// Statistics collects per-CF read statistics for one unit of work. The
// deferred old-value resolver mutates it; the consumer aggregates and
// reports it.
type Statistics struct {
	Data  CfStatistics
	Lock  CfStatistics
	Write CfStatistics
}

// Add merges other into s.
func (s *Statistics) Add(other *Statistics) {
	s.Data.Add(&other.Data)
	s.Lock.Add(&other.Lock)
	s.Write.Add(&other.Write)
}

// CF returns the statistics bucket for the named column family, or nil for
// an unknown name.
func (s *Statistics) CF(name string) *CfStatistics {
	switch name {
	case CFDefault:
		return &s.Data
	case CFLock:
		return &s.Lock
	case CFWrite:
		return &s.Write
	default:
		return nil
	}
}
