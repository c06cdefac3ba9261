package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"tumanina/internal/config"
)

// NewFirestore creates a Firestore client for the configured project.
// Application default credentials are used unless a credentials file is set.
func NewFirestore(ctx context.Context, c config.FirestoreConfig) (*firestore.Client, error) {
	if c.ProjectID == "" {
		return nil, fmt.Errorf("invalid firestore config: project id is required")
	}
	var opts []option.ClientOption
	if c.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(c.CredentialsFile))
	}
	client, err := firestore.NewClient(ctx, c.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return client, nil
}
