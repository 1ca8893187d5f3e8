package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
)

// fakeClient implements client.Client with canned results.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	AuthToken string
	AuthErr   error

	ListFn func(ctx context.Context, page int) (*models.Page, error)

	CreateFn  func(ctx context.Context, d models.Draft) (int, error)
	UpdateErr error
	DeleteErr error
}

func (f *fakeClient) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) Authenticate(ctx context.Context, email, password string) (string, error) {
	f.record("authenticate")
	return f.AuthToken, f.AuthErr
}

func (f *fakeClient) ListEntries(ctx context.Context, page int) (*models.Page, error) {
	f.record("list")
	if f.ListFn == nil {
		return &models.Page{Page: page, TotalPages: 1}, nil
	}
	return f.ListFn(ctx, page)
}

func (f *fakeClient) CreateEntry(ctx context.Context, d models.Draft) (int, error) {
	f.record("create")
	if f.CreateFn == nil {
		return 101, nil
	}
	return f.CreateFn(ctx, d)
}

func (f *fakeClient) UpdateEntry(ctx context.Context, id int, d models.Draft) error {
	f.record("update")
	return f.UpdateErr
}

func (f *fakeClient) DeleteEntry(ctx context.Context, id int) error {
	f.record("delete")
	return f.DeleteErr
}

// memTokens is an in-memory TokenRepository.
type memTokens struct {
	mu       sync.Mutex
	token    string
	LoadErr  error
	SaveErr  error
	ClearErr error
	saves    int
	clears   int
}

func (m *memTokens) Load(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.LoadErr
}

func (m *memTokens) Save(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.token = token
	return nil
}

func (m *memTokens) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.token = ""
	return nil
}

func (m *memTokens) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}
