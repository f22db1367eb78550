package firebase

import (
	"context"
	"fmt"

	fb "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/Masaru124/Attendance-app/config"
)

// NewApp initializes the Firebase Admin app once at startup. The same app
// serves both ID-token verification and FCM delivery.
func NewApp(ctx context.Context, cfg *config.FirebaseConfig) (*fb.App, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := fb.NewApp(ctx, &fb.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	return app, nil
}
