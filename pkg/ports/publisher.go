package ports

import "context"

// Publisher uploads a finished output somewhere outside the local filesystem.
type Publisher interface {
	// Publish uploads the file at localPath under key and returns its location.
	Publish(ctx context.Context, localPath, key string) (string, error)
}
