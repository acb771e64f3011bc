package pipeline

// RunStats tracks aggregate counters across a make run.
type RunStats struct {
	Scanned          int // pending rows visited
	Created          int
	Skipped          int // worksheets that could not be found
	Failed           int
	TotalOutputBytes int64
}
