package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockSurface is a mock implementation of the presenter.Surface interface
type MockSurface struct {
	mock.Mock
}

func (m *MockSurface) ShowChecking() {
	m.Called()
}

func (m *MockSurface) DismissPanel() {
	m.Called()
}

func (m *MockSurface) ShowDownload() {
	m.Called()
}

func (m *MockSurface) UpdateDownloadProgress(percent int, downloadedMB, totalMB float64) {
	m.Called(percent, downloadedMB, totalMB)
}

func (m *MockSurface) ShowInstalling() {
	m.Called()
}

func (m *MockSurface) ShowUpToDate(version string) {
	m.Called(version)
}

func (m *MockSurface) ShowUpdateRequired(current, latest string) {
	m.Called(current, latest)
}

func (m *MockSurface) ShowUpdateError(message string) {
	m.Called(message)
}
