package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"skillsync/internal/domain"
	"skillsync/internal/infrastructure/models/dto"
	"skillsync/internal/infrastructure/models/result"
	"skillsync/internal/infrastructure/repository"
	"skillsync/internal/transport/dto/request"
)

// MockExchangeRepository мок репозитория для тестов
type MockExchangeRepository struct {
	mock.Mock
}

func (m *MockExchangeRepository) Create(ctx context.Context, d *dto.CreateExchangeDTO) (*result.ExchangeResult, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*result.ExchangeResult), args.Error(1)
}

func (m *MockExchangeRepository) Browse(ctx context.Context) ([]*result.ExchangeResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*result.ExchangeResult), args.Error(1)
}

func (m *MockExchangeRepository) ListForUser(ctx context.Context, userId string) ([]*result.ExchangeResult, error) {
	args := m.Called(ctx, userId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*result.ExchangeResult), args.Error(1)
}

func (m *MockExchangeRepository) Respond(ctx context.Context, d *dto.RespondExchangeDTO) (*result.ExchangeResult, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*result.ExchangeResult), args.Error(1)
}

func (m *MockExchangeRepository) Complete(ctx context.Context, d *dto.CompleteExchangeDTO) (*result.ExchangeResult, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*result.ExchangeResult), args.Error(1)
}

func TestExchangeService_Create_Success(t *testing.T) {
	mockRepo := new(MockExchangeRepository)
	service := NewExchangeService(mockRepo, zap.NewNop())

	requesterId := uuid.NewString()
	targetId := uuid.NewString()
	req := &request.CreateExchangeRequest{
		TargetUser:    targetId,
		SkillsOffered: []string{"Go"},
		SkillsWanted:  []string{"Figma"},
		Message:       "let's trade",
	}

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *dto.CreateExchangeDTO) bool {
		return d.RequesterId == requesterId && d.TargetUserId == targetId && d.ExchangeId != ""
	})).Return(&result.ExchangeResult{
		Id:           uuid.NewString(),
		RequesterId:  requesterId,
		TargetUserId: targetId,
		Status:       domain.ExchangeStatusPending,
		IsVisible:    true,
	}, nil)

	resp, err := service.Create(context.Background(), req, requesterId)

	assert.NoError(t, err)
	assert.Equal(t, domain.ExchangeStatusPending, resp.Status)
	mockRepo.AssertExpectations(t)
}

func TestExchangeService_Create_SelfExchange(t *testing.T) {
	mockRepo := new(MockExchangeRepository)
	service := NewExchangeService(mockRepo, zap.NewNop())

	requesterId := uuid.NewString()
	req := &request.CreateExchangeRequest{TargetUser: requesterId}

	resp, err := service.Create(context.Background(), req, requesterId)

	assert.Error(t, err)
	assert.Nil(t, resp)
	var domainErr *DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestExchangeService_Create_DuplicateActive(t *testing.T) {
	mockRepo := new(MockExchangeRepository)
	service := NewExchangeService(mockRepo, zap.NewNop())

	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil, repository.ErrAlreadyExists)

	req := &request.CreateExchangeRequest{TargetUser: uuid.NewString()}
	resp, err := service.Create(context.Background(), req, uuid.NewString())

	assert.Error(t, err)
	assert.Nil(t, resp)
	var domainErr *DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE", domainErr.Code)
}

func TestExchangeService_Create_TargetMissing(t *testing.T) {
	mockRepo := new(MockExchangeRepository)
	service := NewExchangeService(mockRepo, zap.NewNop())

	// Нарушение внешнего ключа означает несуществующего адресата
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil, repository.ErrInvalidInput)

	req := &request.CreateExchangeRequest{TargetUser: uuid.NewString()}
	resp, err := service.Create(context.Background(), req, uuid.NewString())

	assert.Error(t, err)
	assert.Nil(t, resp)
	var domainErr *DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestExchangeService_Respond_AcceptSuccess(t *testing.T) {
	mockRepo := new(MockExchangeRepository)
	service := NewExchangeService(mockRepo, zap.NewNop())

	exchangeId := uuid.NewString()
	actorId := uuid.NewString()

	mockRepo.On("Respond", mock.Anything, mock.MatchedBy(func(d *dto.RespondExchangeDTO) bool {
		return d.ExchangeId == exchangeId && d.ActorId == actorId && d.Accept
	})).Return(&result.ExchangeResult{
		Id:     exchangeId,
		Status: domain.ExchangeStatusAccepted,
	}, nil)

	resp, err := service.Respond(context.Background(), &request.RespondExchangeRequest{Action: "accept"}, exchangeId, actorId)

	assert.NoError(t, err)
	assert.Equal(t, domain.ExchangeStatusAccepted, resp.Status)
	mockRepo.AssertExpectations(t)
}

func TestExchangeService_Respond_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		repoErr  error
		wantCode string
	}{
		{"exchange missing", repository.ErrNotFound, "NOT_FOUND"},
		{"not target", repository.ErrForbidden, "FORBIDDEN"},
		{"already processed", repository.ErrNotPending, "INVALID_STATE"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := new(MockExchangeRepository)
			service := NewExchangeService(mockRepo, zap.NewNop())

			mockRepo.On("Respond", mock.Anything, mock.Anything).Return(nil, tc.repoErr)

			resp, err := service.Respond(context.Background(), &request.RespondExchangeRequest{Action: "reject"}, uuid.NewString(), uuid.NewString())

			assert.Error(t, err)
			assert.Nil(t, resp)
			var domainErr *DomainError
			assert.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tc.wantCode, domainErr.Code)
		})
	}
}

func TestExchangeService_Respond_UnknownAction(t *testing.T) {
	mockRepo := new(MockExchangeRepository)
	service := NewExchangeService(mockRepo, zap.NewNop())

	resp, err := service.Respond(context.Background(), &request.RespondExchangeRequest{Action: "later"}, uuid.NewString(), uuid.NewString())

	assert.Error(t, err)
	assert.Nil(t, resp)
	var domainErr *DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Respond")
}

func TestExchangeService_Complete_Success(t *testing.T) {
	mockRepo := new(MockExchangeRepository)
	service := NewExchangeService(mockRepo, zap.NewNop())

	exchangeId := uuid.NewString()
	actorId := uuid.NewString()

	mockRepo.On("Complete", mock.Anything, mock.MatchedBy(func(d *dto.CompleteExchangeDTO) bool {
		return d.ExchangeId == exchangeId && d.ActorId == actorId
	})).Return(&result.ExchangeResult{
		Id:        exchangeId,
		Status:    domain.ExchangeStatusCompleted,
		IsVisible: false,
	}, nil)

	resp, err := service.Complete(context.Background(), exchangeId, actorId)

	assert.NoError(t, err)
	assert.Equal(t, domain.ExchangeStatusCompleted, resp.Status)
	assert.False(t, resp.IsVisible)
}

func TestExchangeService_Complete_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		repoErr  error
		wantCode string
	}{
		{"exchange missing", repository.ErrNotFound, "NOT_FOUND"},
		{"not participant", repository.ErrForbidden, "FORBIDDEN"},
		{"not accepted yet", repository.ErrNotAccepted, "INVALID_STATE"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := new(MockExchangeRepository)
			service := NewExchangeService(mockRepo, zap.NewNop())

			mockRepo.On("Complete", mock.Anything, mock.Anything).Return(nil, tc.repoErr)

			resp, err := service.Complete(context.Background(), uuid.NewString(), uuid.NewString())

			assert.Error(t, err)
			assert.Nil(t, resp)
			var domainErr *DomainError
			assert.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tc.wantCode, domainErr.Code)
		})
	}
}

func TestExchangeService_ListForUser_BadId(t *testing.T) {
	mockRepo := new(MockExchangeRepository)
	service := NewExchangeService(mockRepo, zap.NewNop())

	resp, err := service.ListForUser(context.Background(), "not-a-uuid")

	assert.Error(t, err)
	assert.Nil(t, resp)
	var domainErr *DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	mockRepo.AssertNotCalled(t, "ListForUser")
}
