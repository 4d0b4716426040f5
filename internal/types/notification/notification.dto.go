package notification

type CreateNotificationRequest struct {
	UserID string           `json:"user_id" validate:"required,uuid"`
	Type   NotificationType `json:"type" validate:"required"`
	Title  string           `json:"title" validate:"required,max=140"`
	Body   string           `json:"body" validate:"required,max=1000"`
	Data   map[string]any   `json:"data"`
}

type UpdatePreferencesRequest struct {
	PushEnabled     *bool `json:"push_enabled,omitempty"`
	EmailEnabled    *bool `json:"email_enabled,omitempty"`
	WhatsAppEnabled *bool `json:"whatsapp_enabled,omitempty"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token" validate:"required,max=4096"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
}

type NotificationListResponse struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int             `json:"unread_count"`
	TotalCount    int             `json:"total_count"`
	Page          int             `json:"page"`
	PageSize      int             `json:"page_size"`
}
