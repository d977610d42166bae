package domain

// AccountStatus is a seller account's moderation state
type AccountStatus string

const (
	AccountPendingVerification AccountStatus = "PENDING_VERIFICATION"
	AccountActive              AccountStatus = "ACTIVE"
	AccountSuspended           AccountStatus = "SUSPENDED"
	AccountDeactivated         AccountStatus = "DEACTIVATED"
	AccountBanned              AccountStatus = "BANNED"
	AccountClosed              AccountStatus = "CLOSED"
)

// IsValid checks if the status is known
func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountPendingVerification, AccountActive, AccountSuspended,
		AccountDeactivated, AccountBanned, AccountClosed:
		return true
	}
	return false
}

// Seller is a vendor account
type Seller struct {
	ID              int64               `json:"id"`
	SellerName      string              `json:"sellerName"`
	Mobile          string              `json:"mobile,omitempty"`
	Email           string              `json:"email"`
	BusinessDetails BusinessDetails     `json:"businessDetails"`
	BankDetails     BankDetails         `json:"bankDetails"`
	PickupAddress   *Address            `json:"pickupaddress,omitempty"`
	GSTIN           string              `json:"gstin,omitempty"`
	Role            Role                `json:"role,omitempty"`
	EmailVerified   bool                `json:"emailVerified"`
	AccountStatus   AccountStatus       `json:"accountStatus,omitempty"`
	Subscription    *SellerSubscription `json:"subscription,omitempty"`
}

// AsUser maps a seller profile onto the session user
func (s *Seller) AsUser() *User {
	return &User{
		ID:       s.ID,
		FullName: s.SellerName,
		Email:    s.Email,
		Mobile:   s.Mobile,
		Role:     RoleSeller,
	}
}

// BusinessDetails describes the seller's business
type BusinessDetails struct {
	BusinessName    string `json:"businessName"`
	BusinessEmail   string `json:"businessEmail,omitempty"`
	BusinessMobile  string `json:"businessMobile,omitempty"`
	BusinessAddress string `json:"businessAddress,omitempty"`
	Logo            string `json:"logo,omitempty"`
	Banner          string `json:"banner,omitempty"`
}

// BankDetails holds the seller's payout account
type BankDetails struct {
	AccountNumber     string `json:"accountNumber"`
	AccountHolderName string `json:"accountHolderName"`
	IFSCCode          string `json:"ifscCode"`
}

// SellerReport aggregates a seller's sales
type SellerReport struct {
	ID                int64   `json:"id"`
	TotalEarnings     float64 `json:"totalEarnings"`
	TotalSales        int     `json:"totalSales"`
	TotalRefunds      float64 `json:"totalRefunds"`
	TotalTax          float64 `json:"totalTax"`
	NetEarnings       float64 `json:"netEarnings"`
	TotalOrders       int     `json:"totalOrders"`
	CanceledOrders    int     `json:"canceledOrders"`
	TotalTransactions int     `json:"totalTransactions"`
}

// TopSellingProduct is a row of the seller analytics
type TopSellingProduct struct {
	ProductID    int64  `json:"productId"`
	ProductName  string `json:"productName"`
	ProductImage string `json:"productImage,omitempty"`
	TotalSales   int64  `json:"totalSales"`
	Revenue      int64  `json:"revenue"`
	OrderCount   int    `json:"orderCount"`
}

// ProductStats summarizes a seller's inventory
type ProductStats struct {
	TotalProducts   int64   `json:"totalProducts"`
	TotalStockValue float64 `json:"totalStockValue"`
	LowStockCount   int64   `json:"lowStockCount"`
	OutOfStockCount int64   `json:"outOfStockCount"`
}

// PlanType is a seller subscription tier
type PlanType string

const (
	PlanFree         PlanType = "FREE"
	PlanBeginner     PlanType = "BEGINNER"
	PlanIntermediate PlanType = "INTERMEDIATE"
	PlanPro          PlanType = "PRO"
)

// SubscriptionPlan is a purchasable seller tier
type SubscriptionPlan struct {
	ID          int64    `json:"id"`
	PlanType    PlanType `json:"planType"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	MaxProducts *int     `json:"maxProducts"` // nil means unlimited
}

// IsUnlimited reports whether the plan has no product cap
func (p *SubscriptionPlan) IsUnlimited() bool {
	return p.MaxProducts == nil
}

// SellerSubscription is a seller's active plan
type SellerSubscription struct {
	ID        int64             `json:"id"`
	Plan      *SubscriptionPlan `json:"plan,omitempty"`
	StartDate string            `json:"startDate,omitempty"`
	EndDate   string            `json:"endDate,omitempty"`
	PlanType  PlanType          `json:"planType"`
}
