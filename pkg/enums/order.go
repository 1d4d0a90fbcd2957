package enums

// OrderStatus tracks fulfillment of a storefront order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus tracks the payment leg independently of fulfillment. The
// transition to paid happens out-of-band via the processor callback.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// DeliveryMethod is the shipping option selected at checkout.
type DeliveryMethod string

const (
	DeliveryMethodPickup   DeliveryMethod = "pickup"
	DeliveryMethodDoorstep DeliveryMethod = "doorstep"
)

// PaymentMethod names the supported payment rails.
type PaymentMethod string

const (
	PaymentMethodMoolre PaymentMethod = "moolre"
	PaymentMethodCOD    PaymentMethod = "cod"
)

// Currency is the settlement currency. The storefront sells in Ghana cedis.
type Currency string

const CurrencyGHS Currency = "GHS"
