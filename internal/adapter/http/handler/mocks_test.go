package handler

import (
	"context"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/listing/usecase"
	"github.com/Abdurahmanit/skip2love/internal/media"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, email, password string) (domain.Identity, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.Identity), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthSession), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAuthService) GetSession(ctx context.Context, token string) (domain.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Identity), args.Error(1)
}

func (m *MockAuthService) VerifyEmail(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

type MockAdService struct {
	mock.Mock
}

func (m *MockAdService) Search(ctx context.Context, query string) ([]*domain.Ad, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Ad), args.Error(1)
}

func (m *MockAdService) ListMine(ctx context.Context, owner domain.Identity) ([]*domain.Ad, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Ad), args.Error(1)
}

func (m *MockAdService) GetByID(ctx context.Context, viewerID, id string) (*domain.Ad, error) {
	args := m.Called(ctx, viewerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ad), args.Error(1)
}

func (m *MockAdService) Publish(ctx context.Context, owner domain.Identity, fields domain.AdFields, files []media.File) (*usecase.PublishResult, error) {
	args := m.Called(ctx, owner, fields, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.PublishResult), args.Error(1)
}

func (m *MockAdService) Update(ctx context.Context, owner domain.Identity, id string, fields domain.AdFields) (*domain.Ad, error) {
	args := m.Called(ctx, owner, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ad), args.Error(1)
}

func (m *MockAdService) AttachImages(ctx context.Context, owner domain.Identity, adID string, urls []string) error {
	return m.Called(ctx, owner, adID, urls).Error(0)
}

func (m *MockAdService) SetActive(ctx context.Context, owner domain.Identity, id string, active bool) error {
	return m.Called(ctx, owner, id, active).Error(0)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Complete(ctx context.Context, identity domain.Identity, fields domain.ProfileFields) (*domain.Profile, error) {
	args := m.Called(ctx, identity, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

type MockGate struct {
	mock.Mock
}

func (m *MockGate) Ensure(ctx context.Context, identity domain.Identity) error {
	return m.Called(ctx, identity).Error(0)
}
