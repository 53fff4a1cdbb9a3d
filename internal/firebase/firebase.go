package firebase

import (
	"context"
	"fmt"

	firebaseSDK "firebase.google.com/go"
	"google.golang.org/api/option"
)

// NewApp initializes a Firebase App. credentialsFile may be empty, in which case application default credentials
// are used; projectID may be empty when the credentials carry one.
func NewApp(ctx context.Context, credentialsFile string, projectID string) (*firebaseSDK.App, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	var conf *firebaseSDK.Config
	if projectID != "" {
		conf = &firebaseSDK.Config{ProjectID: projectID}
	}

	app, err := firebaseSDK.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	return app, nil
}
