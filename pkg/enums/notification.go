package enums

// NotificationType mirrors the dispatch endpoint's accepted event types.
type NotificationType string

const (
	NotificationOrderCreated NotificationType = "order_created"
	NotificationOrderUpdated NotificationType = "order_updated"
	NotificationContact      NotificationType = "contact"
	NotificationCampaign     NotificationType = "campaign"
)
