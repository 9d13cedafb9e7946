package scraper

// Callbacks carries optional status hooks for long-running operations. All
// fields may be nil; the session invokes them best-effort from its own
// goroutine and never blocks on them, so implementations should return
// quickly and must not call back into the session.
type Callbacks struct {
	// Status receives human-readable progress messages.
	Status func(msg string)
	// Progress receives (current, total) save/extract counters.
	Progress func(current, total int)
	// DataCount receives the number of feed items loaded so far while
	// scrolling.
	DataCount func(n int)
}

func (c Callbacks) status(msg string) {
	if c.Status != nil {
		c.Status(msg)
	}
}

func (c Callbacks) progress(current, total int) {
	if c.Progress != nil {
		c.Progress(current, total)
	}
}

func (c Callbacks) dataCount(n int) {
	if c.DataCount != nil {
		c.DataCount(n)
	}
}
