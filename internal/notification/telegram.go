package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"lashstudio/internal/domain"
)

// Sender delivers booking events to the provider's and clients' chats
// through the Telegram Bot API. Every send is best-effort: failures
// are logged and never propagate into the calling transaction.
type Sender struct {
	botToken  string
	adminChat int64
	baseURL   string
	client    *http.Client
}

func NewSender(botToken string, adminChatID int64) *Sender {
	return &Sender{
		botToken:  botToken,
		adminChat: adminChatID,
		baseURL:   "https://api.telegram.org",
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewSenderWithBase is used by tests to point at a fake Bot API.
func NewSenderWithBase(botToken string, adminChatID int64, baseURL string) *Sender {
	s := NewSender(botToken, adminChatID)
	s.baseURL = baseURL
	return s
}

func (s *Sender) send(ctx context.Context, chatID int64, text string) {
	payload, _ := json.Marshal(map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	})
	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.botToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		log.Printf("level=error msg=notify request build failed chat_id=%d err=%v", chatID, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("level=error msg=notify send failed chat_id=%d err=%v", chatID, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("level=error msg=notify send rejected chat_id=%d status=%d", chatID, resp.StatusCode)
	}
}

func bookingLine(b *domain.Booking, serviceName string) string {
	addon := ""
	if b.WithAddon {
		addon = "\n   + add-on"
	}
	mention := b.ClientFirstName
	if b.ClientUsername != "" {
		mention = "@" + b.ClientUsername
	}
	return fmt.Sprintf("%s\n%s%s\n%s at %s - %s\n%d", mention, serviceName, addon, b.Date, b.StartTime, b.EndTime, b.TotalPrice)
}

func (s *Sender) NotifyBookingCreated(ctx context.Context, b *domain.Booking, serviceName string) {
	s.send(ctx, s.adminChat, "New booking (awaiting payment)\n\n"+bookingLine(b, serviceName))
}

func (s *Sender) NotifyBookingConfirmed(ctx context.Context, b *domain.Booking, serviceName string) {
	s.send(ctx, s.adminChat, "New booking, prepayment received\n\n"+bookingLine(b, serviceName))
}

func (s *Sender) NotifyBookingCancelledByClient(ctx context.Context, b *domain.Booking, serviceName string) {
	s.send(ctx, s.adminChat, "Booking cancelled by client\n\n"+bookingLine(b, serviceName))
}

func (s *Sender) NotifyClientCancelledByProvider(ctx context.Context, b *domain.Booking) {
	text := fmt.Sprintf("Your booking on %s at %s was cancelled by the provider.\n\nPlease pick another time.", b.Date, b.StartTime)
	s.send(ctx, b.ClientTgID, text)
}
