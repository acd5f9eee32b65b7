package backend

import (
	"context"

	console "github.com/goliatone/go-console/components/console"
)

// CredentialProvider supplies the bearer token attached to every admin API
// request. Clear is invoked after an authentication failure so the next
// request starts a fresh session.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
	Clear()
}

// ListClient fetches one page of a remote collection as raw rows.
type ListClient interface {
	List(ctx context.Context, path string, q console.Query) (ListResult, error)
}

// Client is a convenience union for the console's remote needs: list
// fetches, profile lookups, and action mutations.
type Client interface {
	ListClient
	console.ProfileLookup
	console.Mutator
}
