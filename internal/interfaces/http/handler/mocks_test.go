package handler

import (
	"context"

	importapp "github.com/storefront/backoffice/internal/application/import"
	"github.com/storefront/backoffice/internal/domain/bulk"
	"github.com/storefront/backoffice/internal/domain/shared"
	"github.com/storefront/backoffice/internal/infrastructure/auth"
	"github.com/stretchr/testify/mock"
)

type mockImportJobs struct {
	mock.Mock
}

func (m *mockImportJobs) Upload(ctx context.Context, in importapp.UploadInput) (*bulk.UploadReceipt, error) {
	args := m.Called(ctx, in)
	if r := args.Get(0); r != nil {
		return r.(*bulk.UploadReceipt), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockImportJobs) Status(ctx context.Context, importID string) (*bulk.ImportJob, error) {
	args := m.Called(ctx, importID)
	if r := args.Get(0); r != nil {
		return r.(*bulk.ImportJob), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockImportJobs) History(ctx context.Context, page shared.Page) (*bulk.HistoryPage, error) {
	args := m.Called(ctx, page)
	if r := args.Get(0); r != nil {
		return r.(*bulk.HistoryPage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockImportJobs) Delete(ctx context.Context, importID string) error {
	return m.Called(ctx, importID).Error(0)
}

func (m *mockImportJobs) Template() (*bulk.Template, error) {
	args := m.Called()
	if r := args.Get(0); r != nil {
		return r.(*bulk.Template), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockBotPanel struct {
	mock.Mock
}

func (m *mockBotPanel) BotStatus(ctx context.Context) (*bulk.BotStatus, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.(*bulk.BotStatus), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBotPanel) BotHistory(ctx context.Context, page shared.Page) (*bulk.HistoryPage, error) {
	args := m.Called(ctx, page)
	if r := args.Get(0); r != nil {
		return r.(*bulk.HistoryPage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBotPanel) DeleteBotHistory(ctx context.Context, importID string) error {
	return m.Called(ctx, importID).Error(0)
}

type stubIssuer struct {
	got auth.GenerateTokenInput
	err error
}

func (s *stubIssuer) GenerateToken(input auth.GenerateTokenInput) (*auth.Token, error) {
	s.got = input
	if s.err != nil {
		return nil, s.err
	}
	return &auth.Token{AccessToken: "signed", TokenType: "Bearer"}, nil
}
