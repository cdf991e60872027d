package moga

import (
	"sync/atomic"
)

// ProgressBar tracks progress through a read set during indexing.
// Increment is safe to call from multiple goroutines; display goes
// through the verbose printer.
type ProgressBar struct {
	Label   string
	Total   uint64
	Current uint64
}

func (bar *ProgressBar) Increment() {
	atomic.AddUint64(&bar.Current, 1)
}

func (bar *ProgressBar) ClearAndDisplay() {
	if bar.Total == 0 {
		return
	}
	current := atomic.LoadUint64(&bar.Current)
	Vprint("\r")
	barWidth := uint64(80 - len(bar.Label))
	ticks := (barWidth * current) / bar.Total
	Vprintf("%s [", bar.Label)
	for i := uint64(0); i < ticks; i++ {
		Vprint("=")
	}
	for i := uint64(0); i < (barWidth - ticks); i++ {
		Vprint(" ")
	}
	Vprint("] ")
	Vprintf("%d / %d", current, bar.Total)
}

// Done finishes the display line.
func (bar *ProgressBar) Done() {
	bar.ClearAndDisplay()
	Vprintln()
}
