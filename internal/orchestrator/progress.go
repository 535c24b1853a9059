package orchestrator

import "github.com/adamancini/skylift/internal/presenter"

const bytesPerMB = 1_048_576

// Progress accumulates bytes received during a single download. A Total
// below or equal to zero means the size is not known.
type Progress struct {
	Downloaded int64
	Total      int64
}

// Add records a received chunk. total is the content length reported with
// the chunk; it replaces the previous value so a size that becomes known
// mid-transfer is picked up on the next call.
func (p *Progress) Add(chunkLength int, total int64) {
	p.Downloaded += int64(chunkLength)
	p.Total = total
}

// Known reports whether the total size is known.
func (p Progress) Known() bool {
	return p.Total > 0
}

// Percent returns floor(Downloaded/Total*100) clamped to [0,100], or
// presenter.IndeterminatePercent when the total is unknown.
func (p Progress) Percent() int {
	if !p.Known() {
		return presenter.IndeterminatePercent
	}
	percent := p.Downloaded * 100 / p.Total
	switch {
	case percent < 0:
		return 0
	case percent > 100:
		return 100
	}
	return int(percent)
}

// DownloadedMB returns the bytes received so far in megabytes.
func (p Progress) DownloadedMB() float64 {
	return float64(p.Downloaded) / bytesPerMB
}

// TotalMB returns the total size in megabytes, 0 when unknown.
func (p Progress) TotalMB() float64 {
	if !p.Known() {
		return 0
	}
	return float64(p.Total) / bytesPerMB
}
