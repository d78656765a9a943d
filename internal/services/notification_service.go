package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"padoca/internal/models"
)

// StatusChangedEvent carries everything an external notifier needs to decide
// whether and whom to email about a status change.
type StatusChangedEvent struct {
	EventID        string             `json:"event_id"`
	OrderID        int64              `json:"order_id"`
	PreviousStatus models.OrderStatus `json:"previous_status"`
	NewStatus      models.OrderStatus `json:"new_status"`
	RecipientEmail string             `json:"recipient_email"`
	RecipientName  string             `json:"recipient_name"`
	OccurredAt     time.Time          `json:"occurred_at"`
}

// Notifier is a fire-and-forget hand-off. Implementations log failures and
// never return them; a broken notifier must not fail the status update that
// triggered it.
type Notifier interface {
	EmitStatusChanged(ctx context.Context, event StatusChangedEvent)
}

const statusChangedQueue = "padoca:events:order_status_changed"

var statusEmailTemplate = template.Must(template.New("status_email").Parse(
	"Ola {{.RecipientName}}, o pedido #{{.OrderID}} mudou de {{.PreviousStatus}} para {{.NewStatus}}.",
))

type notificationService struct {
	redisClient *redis.Client
}

// NewNotificationService builds a notifier backed by a Redis event queue. The
// queue is drained by an external email worker; the local log line doubles as
// the delivery record in development.
func NewNotificationService(redisAddr, redisPassword string, redisDB int) Notifier {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
	return &notificationService{redisClient: redisClient}
}

func (s *notificationService) EmitStatusChanged(ctx context.Context, event StatusChangedEvent) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	var body bytes.Buffer
	if err := statusEmailTemplate.Execute(&body, event); err != nil {
		log.Printf("failed to render status change email for order %d: %v", event.OrderID, err)
		return
	}
	log.Printf("[EMAIL] To=%s, Subject=Pedido #%d: %s, Body=%s",
		event.RecipientEmail, event.OrderID, event.NewStatus, body.String())

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal status change event for order %d: %v", event.OrderID, err)
		return
	}
	if err := s.redisClient.LPush(ctx, statusChangedQueue, payload).Err(); err != nil {
		log.Printf("failed to enqueue status change event for order %d: %v", event.OrderID, err)
	}
}
