package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJob is a mock implementation of the threadpool.Job interface
type MockJob struct {
	mock.Mock
}

func (m *MockJob) Run() {
	m.Called()
}
