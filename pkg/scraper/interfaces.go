package scraper

// Progress receives per-file events of a run. ui.ProgressDisplay
// implements it.
type Progress interface {
	Queued(name string)
	Completed(name string, size int64)
	Skipped(name string)
	Failed(name string, err error)
}
