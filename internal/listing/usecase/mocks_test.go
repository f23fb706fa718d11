package usecase

import (
	"context"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/media"
	"github.com/stretchr/testify/mock"
)

type MockAdRepository struct {
	mock.Mock
}

func (m *MockAdRepository) Insert(ctx context.Context, ad *domain.Ad) error {
	args := m.Called(ctx, ad)
	return args.Error(0)
}

func (m *MockAdRepository) ListActive(ctx context.Context) ([]*domain.Ad, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Ad), args.Error(1)
}

func (m *MockAdRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Ad, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Ad), args.Error(1)
}

func (m *MockAdRepository) FindByID(ctx context.Context, id string) (*domain.Ad, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ad), args.Error(1)
}

func (m *MockAdRepository) UpdateImages(ctx context.Context, id, ownerID string, images []string) error {
	args := m.Called(ctx, id, ownerID, images)
	return args.Error(0)
}

func (m *MockAdRepository) Update(ctx context.Context, ad *domain.Ad) error {
	args := m.Called(ctx, ad)
	return args.Error(0)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendVerificationEmail(toEmail, code string) error {
	args := m.Called(toEmail, code)
	return args.Error(0)
}

func (m *MockNotifier) SendListingCreatedEmail(toEmail, listingTitle string) error {
	args := m.Called(toEmail, listingTitle)
	return args.Error(0)
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) UploadAll(ctx context.Context, ownerID, adID string, files []media.File) media.UploadResult {
	args := m.Called(ctx, ownerID, adID, files)
	return args.Get(0).(media.UploadResult)
}
