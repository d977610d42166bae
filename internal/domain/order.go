package domain

// OrderStatus is the server-authoritative order state
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPlaced    OrderStatus = "PLACED"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is known
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPlaced, OrderStatusConfirmed,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsCancellable reports whether a cancel request makes sense for this status.
// The backend still decides.
func (s OrderStatus) IsCancellable() bool {
	return s != OrderStatusDelivered && s != OrderStatusCancelled
}

// PaymentMethod selects how an order is paid
type PaymentMethod string

const (
	PaymentMethodStripe         PaymentMethod = "STRIPE"
	PaymentMethodCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodStripe || m == PaymentMethodCashOnDelivery
}

// PaymentStatus is the backend's payment state
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// Address is the backend address entity. The street field is spelled
// "adderss" on the wire.
type Address struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	Locality string `json:"locality"`
	Street   string `json:"adderss"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
	Mobile   string `json:"mobile"`
}

// Order is one seller's share of a checkout
type Order struct {
	ID                   int64          `json:"id"`
	OrderID              string         `json:"orderId"`
	User                 *User          `json:"user,omitempty"`
	SellerID             int64          `json:"sellerId,omitempty"`
	OrderItems           []OrderItem    `json:"orderItems"`
	OrderDate            string         `json:"orderDate,omitempty"`
	DeliverDate          string         `json:"deliverDate,omitempty"`
	ShippingAddress      *Address       `json:"shippingAddress,omitempty"`
	PaymentDetails       PaymentDetails `json:"paymentDetails"`
	TotalMrpPrice        float64        `json:"totalMrpPrice"`
	TotalSellingPrice    float64        `json:"totalSellingPrice"`
	TotalDiscountedPrice float64        `json:"totalDiscountedPrice,omitempty"`
	Discount             float64        `json:"discount"`
	OrderStatus          OrderStatus    `json:"orderStatus"`
	TotalItem            int            `json:"totalItem"`
	PaymentStatus        PaymentStatus  `json:"paymentStatus,omitempty"`
}

// OrderItem is one line of an order
type OrderItem struct {
	ID           int64    `json:"id"`
	Product      *Product `json:"product,omitempty"`
	Size         string   `json:"size,omitempty"`
	Quantity     int      `json:"quantity"`
	MrpPrice     float64  `json:"mrpPrice"`
	SellingPrice float64  `json:"sellingPrice"`
	UserID       int64    `json:"userId,omitempty"`
}

// PaymentDetails carries the payment provider references of an order
type PaymentDetails struct {
	PaymentID     string        `json:"paymentId,omitempty"`
	Status        PaymentStatus `json:"status,omitempty"`
	PaymentMethod string        `json:"paymentMethod,omitempty"`
}

// PaymentLink is returned by order creation. For cash on delivery the URL is "COD".
type PaymentLink struct {
	URL string `json:"payment_link_url"`
	ID  string `json:"payment_link_id"`
}

// IsCashOnDelivery reports whether no external payment step is needed
func (p *PaymentLink) IsCashOnDelivery() bool {
	return p.URL == "COD"
}
