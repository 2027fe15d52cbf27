package providers

import "context"

// ContentProvider extracts plain text from a manual URL
type ContentProvider interface {
	// ExtractText fetches the document behind url and returns its plain text.
	// Guaranteed non-empty on success.
	ExtractText(ctx context.Context, url string) (string, error)
}
