package mock

import "context"

// MockDispatcher implements task dispatching for tests.
type MockDispatcher struct {
	ProcessCalled bool
	ProcessKeys   []string
	ProcessErr    error
}

func (m *MockDispatcher) EnqueueProcessMedia(ctx context.Context, originalKey string) error {
	m.ProcessCalled = true
	m.ProcessKeys = append(m.ProcessKeys, originalKey)
	return m.ProcessErr
}
