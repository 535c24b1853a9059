// Package presenter defines the surface the update orchestrator reports to
// and the non-graphical implementations of it.
package presenter

// IndeterminatePercent is passed to UpdateDownloadProgress when the total
// download size is unknown.
const IndeterminatePercent = -1

// Surface receives one-way lifecycle notifications. Implementations must not
// block the caller waiting for user interaction.
type Surface interface {
	ShowChecking()
	DismissPanel()
	ShowDownload()
	// UpdateDownloadProgress reports percent in [0,100], or
	// IndeterminatePercent with totalMB set to 0.
	UpdateDownloadProgress(percent int, downloadedMB, totalMB float64)
	ShowInstalling()
	ShowUpToDate(version string)
	ShowUpdateRequired(current, latest string)
	ShowUpdateError(message string)
}
