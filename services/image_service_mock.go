package services

import (
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/priya-bakes/sugarplum-bakery-api/utils"
)

// MockImageService is a mock implementation of ImageService for testing
type MockImageService struct {
	images map[string]bool
	mu     sync.RWMutex
}

// NewMockImageService creates a new mock image service
func NewMockImageService() *MockImageService {
	return &MockImageService{
		images: make(map[string]bool),
	}
}

// SetAsMockForTesting sets this mock as the global image service instance
func (m *MockImageService) SetAsMockForTesting() {
	SetImageService(m)
}

// UploadImage simulates validating and uploading an image
func (m *MockImageService) UploadImage(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	key := fmt.Sprintf("images/mock_%s", fileHeader.Filename)

	m.mu.Lock()
	m.images[key] = true
	m.mu.Unlock()

	return key, nil
}

// GetImageURL simulates generating an image URL
func (m *MockImageService) GetImageURL(imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}
	return fmt.Sprintf("https://test-bucket.s3.ap-south-1.amazonaws.com/%s?mock=true", imageKey), nil
}

// DeleteImage simulates deleting an image
func (m *MockImageService) DeleteImage(imageKey string) error {
	m.mu.Lock()
	delete(m.images, imageKey)
	m.mu.Unlock()
	return nil
}

// HasImage checks whether an image was uploaded (for testing assertions)
func (m *MockImageService) HasImage(imageKey string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.images[imageKey]
}
