package client

import (
	"context"

	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
)

// Client is the contract of the remote directory API.
//
// Every method either succeeds or returns an *Error whose Kind tells the
// caller whether the call never reached the server, was rejected for
// authorization, or failed with a business error.
type Client interface {
	// Authenticate exchanges credentials for an opaque session token.
	Authenticate(ctx context.Context, email, password string) (string, error)

	// ListEntries returns one server page of the directory.
	ListEntries(ctx context.Context, page int) (*models.Page, error)

	// CreateEntry submits a draft and returns the server-assigned id.
	// The server does not echo the record back.
	CreateEntry(ctx context.Context, d models.Draft) (int, error)

	// UpdateEntry submits a draft for an existing id. Only an
	// acknowledgement comes back.
	UpdateEntry(ctx context.Context, id int, d models.Draft) error

	// DeleteEntry removes the entry with the given id.
	DeleteEntry(ctx context.Context, id int) error
}

// TokenSource yields the currently held session token, "" when anonymous.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }
