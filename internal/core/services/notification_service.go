package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ntubimd/camping-backend/internal/adapters/persistence/models"
	"github.com/ntubimd/camping-backend/internal/adapters/persistence/repositories"
	"github.com/ntubimd/camping-backend/internal/core/domain"
)

// NotificationService stores in-app notifications for both parties of a
// rental record and optionally mirrors them to an external webhook.
// Everything here is best-effort: failures are logged and swallowed.
type NotificationService struct {
	notifications repositories.NotificationRepository
	webhookURL    string
	client        *http.Client
}

// NewNotificationService creates a new notification service
func NewNotificationService(notifications repositories.NotificationRepository, webhookURL string) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		webhookURL:    webhookURL,
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

// IsEnabled checks if webhook delivery is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.webhookURL != ""
}

func statusMessage(record *models.RentalRecord) string {
	switch record.Status {
	case domain.StatusPending:
		return fmt.Sprintf("🆕 New rental request #%d is waiting for a response", record.ID)
	case domain.StatusAgreed:
		return fmt.Sprintf("✅ Rental request #%d was accepted", record.ID)
	case domain.StatusDenied:
		return fmt.Sprintf("❌ Rental request #%d was denied", record.ID)
	case domain.StatusCanceled:
		return fmt.Sprintf("🚫 Rental request #%d was canceled", record.ID)
	case domain.StatusBorrowing:
		return fmt.Sprintf("📦 Rental #%d has started", record.ID)
	case domain.StatusCompensating:
		return fmt.Sprintf("⚠️ Rental #%d requires compensation", record.ID)
	case domain.StatusNotCommented:
		return fmt.Sprintf("🔄 Rental #%d is finished, please rate your counterpart", record.ID)
	case domain.StatusAlreadyCommented:
		return fmt.Sprintf("🏁 Rental #%d is closed, both parties rated", record.ID)
	default:
		return fmt.Sprintf("🔄 Rental #%d changed status to %s", record.ID, record.Status)
	}
}

// Notify records a status notification for the renter and the listing owner.
func (s *NotificationService) Notify(record *models.RentalRecord) {
	if record == nil {
		return
	}

	content := statusMessage(record)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	accounts := []string{record.RenterAccount}
	if owner := record.OwnerAccount(); owner != "" && owner != record.RenterAccount {
		accounts = append(accounts, owner)
	}
	for _, account := range accounts {
		err := s.notifications.Create(ctx, &models.Notification{
			UserAccount: account,
			RecordID:    record.ID,
			Content:     content,
		})
		if err != nil {
			log.Printf("⚠️ Failed to store notification for %s: %v", account, err)
		}
	}

	s.sendWebhook(record, content)
}

func (s *NotificationService) sendWebhook(record *models.RentalRecord, content string) {
	if !s.IsEnabled() {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"record_id": record.ID,
		"status":    record.Status,
		"message":   content,
	})
	if err != nil {
		return
	}

	req, err := http.NewRequest("POST", s.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		log.Printf("⚠️ Webhook request build failed: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("⚠️ Webhook delivery failed: %v", err)
		return
	}
	defer resp.Body.Close()
}

// ListByAccount returns a user's notifications, newest first
func (s *NotificationService) ListByAccount(ctx context.Context, account string, offset, limit int) ([]*models.Notification, int64, error) {
	return s.notifications.ListByAccount(ctx, account, offset, limit)
}

// MarkRead marks a notification as read
func (s *NotificationService) MarkRead(ctx context.Context, id uint, account string) error {
	return s.notifications.MarkRead(ctx, id, account)
}
