package payment

// WebhookNotification is the YooKassa event envelope. Only the fields
// reconciliation needs are decoded.
type WebhookNotification struct {
	Event  string `json:"event"`
	Object struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Amount struct {
			Value    string `json:"value"`
			Currency string `json:"currency"`
		} `json:"amount"`
		Metadata struct {
			BookingID string `json:"booking_id"`
		} `json:"metadata"`
	} `json:"object"`
}
