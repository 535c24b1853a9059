package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/adamancini/skylift/internal/update"
)

// MockClient is a mock implementation of the orchestrator.Client interface.
// DownloadAndInstall expects Return(err, callFinish); Chunks are replayed
// through onChunk before onFinish is called.
type MockClient struct {
	mock.Mock

	Chunks []Chunk
}

// Chunk is one progress callback replayed by MockClient
type Chunk struct {
	Length        int
	ContentLength int64
}

func (m *MockClient) Check(ctx context.Context) (*update.Release, error) {
	args := m.Called(ctx)
	rel, _ := args.Get(0).(*update.Release)
	return rel, args.Error(1)
}

func (m *MockClient) DownloadAndInstall(ctx context.Context, rel *update.Release, onChunk update.ChunkFunc, onFinish func()) error {
	args := m.Called(ctx, rel)
	for _, c := range m.Chunks {
		onChunk(c.Length, c.ContentLength)
	}
	if finish, _ := args.Get(1).(bool); finish && onFinish != nil {
		onFinish()
	}
	return args.Error(0)
}

// MockRestarter is a mock implementation of the orchestrator.Restarter interface
type MockRestarter struct {
	mock.Mock
}

func (m *MockRestarter) Restart() error {
	args := m.Called()
	return args.Error(0)
}
