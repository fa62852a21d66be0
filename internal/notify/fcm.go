// Package notify wraps the Firebase Cloud Messaging client. The client is
// constructed once per process on first use and injected into the services
// that dispatch pushes; it is never looked up as ambient state from the
// core logic.
package notify

import (
	"context"
	"os"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/apperr"
)

// Client sends best-effort push notifications to sets of device tokens.
type Client struct {
	msg *messaging.Client
}

var (
	defaultClient *Client
	once          sync.Once
)

// Default returns the process-wide FCM client, initializing it from the
// FIREBASE_SERVICE_ACCOUNT env var (JSON credentials) on first call. When
// the credentials are absent the client still constructs, Send just fails
// upstream; booking flows treat that as a logged no-op.
func Default() *Client {
	once.Do(func() {
		defaultClient = &Client{}
		creds := os.Getenv("FIREBASE_SERVICE_ACCOUNT")
		if creds == "" {
			logrus.Warn("FIREBASE_SERVICE_ACCOUNT not set, push notifications disabled")
			return
		}
		app, err := firebase.NewApp(context.Background(), nil, option.WithCredentialsJSON([]byte(creds)))
		if err != nil {
			logrus.WithError(err).Error("could not initialize firebase app")
			return
		}
		msg, err := app.Messaging(context.Background())
		if err != nil {
			logrus.WithError(err).Error("could not initialize FCM client")
			return
		}
		defaultClient.msg = msg
	})
	return defaultClient
}

// Send dispatches one notification to every token and reports per-token
// success/failure counts. It never panics its errors up past the caller's
// logging.
func (c *Client) Send(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, int, error) {
	if c == nil || c.msg == nil {
		return 0, len(tokens), apperr.New(apperr.Upstream, "push notifications not configured")
	}
	if len(tokens) == 0 {
		return 0, 0, nil
	}

	res, err := c.msg.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	})
	if err != nil {
		return 0, len(tokens), apperr.Wrap(apperr.Upstream, "FCM dispatch failed", err)
	}
	return res.SuccessCount, res.FailureCount, nil
}
