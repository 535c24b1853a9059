package presenter

// Multi fans every notification out to each of its surfaces in order.
type Multi []Surface

var _ Surface = Multi(nil)

// NewMulti drops nil entries and returns the remaining surfaces as one.
func NewMulti(surfaces ...Surface) Multi {
	m := make(Multi, 0, len(surfaces))
	for _, s := range surfaces {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m Multi) ShowChecking() {
	for _, s := range m {
		s.ShowChecking()
	}
}

func (m Multi) DismissPanel() {
	for _, s := range m {
		s.DismissPanel()
	}
}

func (m Multi) ShowDownload() {
	for _, s := range m {
		s.ShowDownload()
	}
}

func (m Multi) UpdateDownloadProgress(percent int, downloadedMB, totalMB float64) {
	for _, s := range m {
		s.UpdateDownloadProgress(percent, downloadedMB, totalMB)
	}
}

func (m Multi) ShowInstalling() {
	for _, s := range m {
		s.ShowInstalling()
	}
}

func (m Multi) ShowUpToDate(version string) {
	for _, s := range m {
		s.ShowUpToDate(version)
	}
}

func (m Multi) ShowUpdateRequired(current, latest string) {
	for _, s := range m {
		s.ShowUpdateRequired(current, latest)
	}
}

func (m Multi) ShowUpdateError(message string) {
	for _, s := range m {
		s.ShowUpdateError(message)
	}
}
