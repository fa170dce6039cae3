package notification

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/repository"
	"google.golang.org/api/option"
)

// NotificationService handles FCM push notifications
type NotificationService struct {
	client   *messaging.Client
	userRepo *repository.UserRepository
}

// NewNotificationService creates a new FCM notification service
func NewNotificationService(credentialsFile string, userRepo *repository.UserRepository) (*NotificationService, error) {
	if credentialsFile == "" {
		log.Println("⚠️ Firebase credentials not provided, push notifications disabled")
		return nil, nil
	}

	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		// Log warning instead of error to not block server startup
		log.Printf("⚠️ Failed to initialize Firebase app: %v (push notifications disabled)", err)
		return nil, nil
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Printf("⚠️ Failed to get messaging client: %v", err)
		return nil, nil
	}

	log.Println("✅ Firebase FCM initialized")
	return &NotificationService{
		client:   client,
		userRepo: userRepo,
	}, nil
}

// SendMessageNotification sends a push notification for a new chat message
func (s *NotificationService) SendMessageNotification(ctx context.Context, receiverID uuid.UUID, senderName string, content string, conversationID uuid.UUID) error {
	return s.send(ctx, receiverID, senderName, content, map[string]string{
		"type":            "new_message",
		"conversation_id": conversationID.String(),
		"sender_name":     senderName,
	})
}

// SendConnectionNotification notifies a user about connection activity
func (s *NotificationService) SendConnectionNotification(ctx context.Context, receiverID uuid.UUID, title, body string) error {
	return s.send(ctx, receiverID, title, body, map[string]string{
		"type": "connection",
	})
}

func (s *NotificationService) send(ctx context.Context, receiverID uuid.UUID, title, body string, data map[string]string) error {
	if s == nil || s.client == nil {
		return nil
	}

	user, err := s.userRepo.FindByID(receiverID)
	if err != nil {
		return err
	}
	if user.DeviceToken == "" {
		return nil
	}

	if body == "" {
		body = "Sent an attachment"
	}

	message := &messaging.Message{
		Token: user.DeviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	if _, err := s.client.Send(ctx, message); err != nil {
		return fmt.Errorf("error sending push notification: %w", err)
	}
	return nil
}
