package console

import (
	"strings"
	"time"
)

// The admin backend is inconsistent about id spelling (`_id` vs `id`), so
// every record carries both and ItemID prefers whichever is set.

// Booking is one service booking row.
type Booking struct {
	ID        string  `json:"_id"`
	AltID     string  `json:"id"`
	Reference string  `json:"bookingReference"`
	Service   string  `json:"serviceName"`
	Status    string  `json:"status"`
	Payment   string  `json:"paymentMode"`
	Amount    float64 `json:"amount"`

	User   Ref[Profile] `json:"userId"`
	Vendor Ref[Profile] `json:"vendorId"`

	// Denormalized fallbacks used when the join cannot be resolved.
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
	VendorName    string `json:"vendorName"`

	ScheduledAt time.Time `json:"scheduledAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (b Booking) ItemID() string { return firstNonEmpty(b.ID, b.AltID) }

// DisplayName is the customer the booking belongs to.
func (b Booking) DisplayName() string {
	return RefDisplayName(b.User, Profile{Name: b.CustomerName, Email: b.CustomerEmail, Phone: b.CustomerPhone})
}

func (b Booking) DisplayStatus() string { return displayStatus(b.Status) }

// VendorDisplayName resolves the assigned vendor's visible name, falling
// back to "Not Assigned" for unassigned bookings.
func (b Booking) VendorDisplayName() string {
	return RefDisplayName(b.Vendor, Profile{Name: b.VendorName})
}

// Plan is one AMC (annual maintenance contract) plan row.
type Plan struct {
	ID             string   `json:"_id"`
	AltID          string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	DurationMonths int      `json:"durationMonths"`
	Status         string   `json:"status"`
	Features       []string `json:"features"`
}

func (p Plan) ItemID() string        { return firstNonEmpty(p.ID, p.AltID) }
func (p Plan) DisplayName() string   { return firstNonEmpty(p.Name, UnknownLabel) }
func (p Plan) DisplayStatus() string { return displayStatus(p.Status) }

// Subscription is one AMC subscription row.
type Subscription struct {
	ID       string `json:"_id"`
	AltID    string `json:"id"`
	PlanName string `json:"planName"`
	Status   string `json:"status"`

	User Ref[Profile] `json:"userId"`

	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	UserPhone string `json:"userPhone"`

	ClaimsUsed   int       `json:"claimsUsed"`
	ClaimsQuota  int       `json:"claimsQuota"`
	StartedAt    time.Time `json:"startedAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
	PendingClaim string    `json:"pendingClaimId"`
}

func (s Subscription) ItemID() string { return firstNonEmpty(s.ID, s.AltID) }

func (s Subscription) DisplayName() string {
	return RefDisplayName(s.User, Profile{Name: s.UserName, Email: s.UserEmail, Phone: s.UserPhone})
}

func (s Subscription) DisplayStatus() string { return displayStatus(s.Status) }

// Ticket is one support ticket row.
type Ticket struct {
	ID       string `json:"_id"`
	AltID    string `json:"id"`
	Subject  string `json:"subject"`
	Body     string `json:"description"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
	Category string `json:"category"`

	User     Ref[Profile] `json:"userId"`
	Assignee Ref[Profile] `json:"assignedTo"`

	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t Ticket) ItemID() string { return firstNonEmpty(t.ID, t.AltID) }

func (t Ticket) DisplayName() string {
	return RefDisplayName(t.User, Profile{Name: t.UserName, Email: t.UserEmail})
}

func (t Ticket) DisplayStatus() string { return displayStatus(t.Status) }

// AssigneeDisplayName resolves the support agent handling the ticket.
func (t Ticket) AssigneeDisplayName() string {
	return RefDisplayName(t.Assignee, Profile{})
}

// User is one platform user row.
type User struct {
	ID       string    `json:"_id"`
	AltID    string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	Role     string    `json:"role"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"createdAt"`
}

func (u User) ItemID() string        { return firstNonEmpty(u.ID, u.AltID) }
func (u User) DisplayName() string   { return firstNonEmpty(u.Name, u.Email, UnknownLabel) }
func (u User) DisplayStatus() string { return displayStatus(u.Status) }

// Vendor is one service vendor row.
type Vendor struct {
	ID       string   `json:"_id"`
	AltID    string   `json:"id"`
	Company  string   `json:"companyName"`
	Contact  string   `json:"contactName"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Status   string   `json:"status"`
	Rating   float64  `json:"rating"`
	Services []string `json:"services"`
}

func (v Vendor) ItemID() string        { return firstNonEmpty(v.ID, v.AltID) }
func (v Vendor) DisplayName() string   { return firstNonEmpty(v.Company, v.Contact, UnknownLabel) }
func (v Vendor) DisplayStatus() string { return displayStatus(v.Status) }

// Card is one service-provider catalog card row.
type Card struct {
	ID       string  `json:"_id"`
	AltID    string  `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Status   string  `json:"status"`

	Provider Ref[Profile] `json:"providerId"`

	ProviderName string `json:"providerName"`
}

func (c Card) ItemID() string        { return firstNonEmpty(c.ID, c.AltID) }
func (c Card) DisplayName() string   { return firstNonEmpty(c.Title, UnknownLabel) }
func (c Card) DisplayStatus() string { return displayStatus(c.Status) }

// ProviderDisplayName resolves the card's provider name.
func (c Card) ProviderDisplayName() string {
	return RefDisplayName(c.Provider, Profile{Name: c.ProviderName})
}

// Payment is one payment record row.
type Payment struct {
	ID        string  `json:"_id"`
	AltID     string  `json:"id"`
	Reference string  `json:"transactionId"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Mode      string  `json:"paymentMode"`
	Status    string  `json:"status"`

	User Ref[Profile] `json:"userId"`

	UserName  string    `json:"userName"`
	UserEmail string    `json:"userEmail"`
	PaidAt    time.Time `json:"paidAt"`
}

func (p Payment) ItemID() string { return firstNonEmpty(p.ID, p.AltID) }

func (p Payment) DisplayName() string {
	return RefDisplayName(p.User, Profile{Name: p.UserName, Email: p.UserEmail})
}

func (p Payment) DisplayStatus() string { return displayStatus(p.Status) }

// WalletEntry is one vendor wallet ledger row.
type WalletEntry struct {
	ID        string  `json:"_id"`
	AltID     string  `json:"id"`
	Amount    float64 `json:"amount"`
	Direction string  `json:"direction"` // credit or debit
	Balance   float64 `json:"balance"`
	Status    string  `json:"status"`
	Note      string  `json:"note"`

	Vendor Ref[Profile] `json:"vendorId"`

	VendorName string    `json:"vendorName"`
	At         time.Time `json:"createdAt"`
}

func (w WalletEntry) ItemID() string { return firstNonEmpty(w.ID, w.AltID) }

func (w WalletEntry) DisplayName() string {
	return RefDisplayName(w.Vendor, Profile{Name: w.VendorName})
}

func (w WalletEntry) DisplayStatus() string { return displayStatus(w.Status) }

// displayStatus keeps the backend's casing for known values but never
// returns an empty string.
func displayStatus(status string) string {
	if strings.TrimSpace(status) == "" {
		return UnknownLabel
	}
	return status
}
