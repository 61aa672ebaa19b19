package interfaces

import (
	"context"

	"storefront_e2e/domain/entities"
)

// Element is an opaque handle produced by a Driver
type Element interface {
	// Describe returns a human readable description used in logs
	Describe() string
}

// Driver defines the primitive DOM operations the facade is built on.
// Find returns a nil Element and no error when nothing matches.
type Driver interface {
	Find(ctx context.Context, q entities.Query) (Element, error)

	// Count returns the number of matches, ignoring the query index
	Count(ctx context.Context, q entities.Query) (int, error)

	IsVisible(ctx context.Context, el Element) (bool, error)
	IsEnabled(ctx context.Context, el Element) (bool, error)
	IsChecked(ctx context.Context, el Element) (bool, error)

	// Text returns the raw text content of the element
	Text(ctx context.Context, el Element) (string, error)

	// Value returns the current value of a form control
	Value(ctx context.Context, el Element) (string, error)

	Attribute(ctx context.Context, el Element, name string) (string, bool, error)

	Click(ctx context.Context, el Element) error
	Fill(ctx context.Context, el Element, value string) error
	Check(ctx context.Context, el Element) error
	Uncheck(ctx context.Context, el Element) error
	SelectOption(ctx context.Context, el Element, value string) error
}

// Session is one exclusive browser session, owned by a single scenario
type Session interface {
	ID() string

	// Navigate loads a URL; relative URLs resolve against the base URL
	Navigate(ctx context.Context, url string) error

	URL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)

	// Snapshot captures the page state for failure reports
	Snapshot(ctx context.Context) (entities.PageInfo, error)

	Driver() Driver

	Close(ctx context.Context) error
}

// SessionProvider hands out fresh sessions
type SessionProvider interface {
	NewSession(ctx context.Context) (Session, error)

	// Close releases the underlying browser
	Close() error
}
