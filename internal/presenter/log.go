package presenter

import (
	log "github.com/sirupsen/logrus"
)

// Log writes notifications to a logrus logger. Progress is logged at debug
// level since it fires for every received chunk.
type Log struct {
	logger log.FieldLogger
}

var _ Surface = (*Log)(nil)

// NewLog creates a log surface. A nil logger uses the standard logrus logger.
func NewLog(logger log.FieldLogger) *Log {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Log{logger: logger.WithField("component", "presenter")}
}

func (l *Log) ShowChecking() {
	l.logger.Info("checking for updates")
}

func (l *Log) DismissPanel() {
	l.logger.Debug("panel dismissed")
}

func (l *Log) ShowDownload() {
	l.logger.Info("downloading update")
}

func (l *Log) UpdateDownloadProgress(percent int, downloadedMB, totalMB float64) {
	entry := l.logger.WithField("downloaded_mb", round2(downloadedMB))
	if percent == IndeterminatePercent {
		entry.Debug("download progress")
		return
	}
	entry.WithFields(log.Fields{
		"percent":  percent,
		"total_mb": round2(totalMB),
	}).Debug("download progress")
}

func (l *Log) ShowInstalling() {
	l.logger.Info("installing update")
}

func (l *Log) ShowUpToDate(version string) {
	l.logger.WithField("version", version).Info("already up to date")
}

func (l *Log) ShowUpdateRequired(current, latest string) {
	l.logger.WithFields(log.Fields{
		"current": current,
		"latest":  latest,
	}).Info("update required")
}

func (l *Log) ShowUpdateError(message string) {
	l.logger.WithField("error", message).Error("update check failed")
}

func round2(v float64) float64 {
	return float64(int64(v*100)) / 100
}
