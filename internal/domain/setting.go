package domain

// Settings keys for runtime thresholds the provider can override
// without a redeploy.
const (
	SettingTightWindowDays    = "tight_window_days"
	SettingRefundThresholdHrs = "refund_threshold_hours"
	SettingPendingTimeoutMins = "pending_timeout_minutes"
)
