// Package notify delivers push notifications about appointment changes.
package notify

import (
	"context"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Noop drops every message. Used when no Firebase credentials are configured.
type Noop struct{}

func (Noop) Send(context.Context, Message) error { return nil }

// FCM sends messages through Firebase Cloud Messaging.
type FCM struct {
	client *messaging.Client
	log    *zap.Logger
}

// NewFCM builds a Firebase messaging client from a service account file.
func NewFCM(ctx context.Context, credentialsFile string, log *zap.Logger) (*FCM, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("firebase cloud messaging ready")
	return &FCM{client: client, log: log}, nil
}

func (f *FCM) Send(ctx context.Context, msg Message) error {
	if msg.Token == "" {
		return nil
	}
	id, err := f.client.Send(ctx, &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
	})
	if err != nil {
		f.log.Warn("fcm send failed", zap.Error(err))
		return err
	}
	f.log.Debug("fcm message sent", zap.String("message_id", id))
	return nil
}
