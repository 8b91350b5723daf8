package services

import (
	"fmt"
	"sync"
	"time"
)

// MockArchiveService is a mock implementation of ArchiveService for testing
type MockArchiveService struct {
	uploadedReports map[string][]byte // map of S3 key to report content
	mu              sync.RWMutex
}

// NewMockArchiveService creates a new mock archive service
func NewMockArchiveService() *MockArchiveService {
	return &MockArchiveService{
		uploadedReports: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global archive service instance for testing
func (m *MockArchiveService) SetAsMockForTesting() {
	SetArchiveService(m)
}

// UploadReport simulates uploading a report snapshot
func (m *MockArchiveService) UploadReport(name string, content []byte) (string, error) {
	key := fmt.Sprintf("reports/%d_%s", time.Now().Unix(), name)

	m.mu.Lock()
	m.uploadedReports[key] = append([]byte(nil), content...)
	m.mu.Unlock()

	return key, nil
}

// GetUploadedReports returns all uploaded reports (for testing assertions)
func (m *MockArchiveService) GetUploadedReports() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reports := make(map[string][]byte, len(m.uploadedReports))
	for k, v := range m.uploadedReports {
		reports[k] = v
	}
	return reports
}

// Clear removes all reports from mock storage
func (m *MockArchiveService) Clear() {
	m.mu.Lock()
	m.uploadedReports = make(map[string][]byte)
	m.mu.Unlock()
}
