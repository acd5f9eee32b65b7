package console

import (
	"fmt"
	"strconv"
	"time"
)

// Collection codes for the built-in pages.
const (
	CodeBookings      = "admin.console.bookings"
	CodePlans         = "admin.console.plans"
	CodeSubscriptions = "admin.console.subscriptions"
	CodeTickets       = "admin.console.tickets"
	CodeUsers         = "admin.console.users"
	CodeVendors       = "admin.console.vendors"
	CodeCards         = "admin.console.cards"
	CodePayments      = "admin.console.payments"
	CodeWallets       = "admin.console.wallets"
)

// Profile sources the built-in pages join against.
const (
	SourceUsers   = "users"
	SourceVendors = "vendors"
)

// PageDeps carries the collaborators shared by every built-in page.
type PageDeps struct {
	Registry       *Registry
	Lookup         ProfileLookup
	Mutator        Mutator
	Broadcast      *Broadcast
	Telemetry      Telemetry
	Schemas        *PayloadValidator
	SearchDebounce time.Duration
}

func (d PageDeps) descriptor(code string) (Descriptor, error) {
	if d.Registry != nil {
		if desc, ok := d.Registry.Descriptor(code); ok {
			return desc, nil
		}
		return Descriptor{}, fmt.Errorf("%w: %s", errUnknownCollection, code)
	}
	for _, desc := range DefaultDescriptors() {
		if desc.Code == code {
			return desc, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %s", errUnknownCollection, code)
}

// NewBookingsPage builds the bookings list page with its user and vendor
// joins.
func NewBookingsPage(fetcher CollectionFetcher[Booking], deps PageDeps) (*Page[Booking], error) {
	desc, err := deps.descriptor(CodeBookings)
	if err != nil {
		return nil, err
	}
	return NewPage(PageConfig[Booking]{
		Descriptor: desc,
		Fetcher:    fetcher,
		Lookup:     deps.Lookup,
		Mutator:    deps.Mutator,
		Broadcast:  deps.Broadcast,
		Telemetry:  deps.Telemetry,
		Schemas:    deps.Schemas,

		SearchDebounce: deps.SearchDebounce,
		Matcher: Matcher[Booking]{
			SearchFields: []FieldGetter[Booking]{
				func(b Booking) string { return b.Reference },
				func(b Booking) string { return b.Service },
				func(b Booking) string { return b.CustomerName },
				func(b Booking) string { return b.CustomerEmail },
				func(b Booking) string { return b.CustomerPhone },
				func(b Booking) string { return b.DisplayName() },
			},
			Status:      func(b Booking) string { return b.Status },
			PaymentMode: func(b Booking) string { return b.Payment },
		},
		View: func(b Booking) RowView {
			return RowView{
				ID:            b.ItemID(),
				DisplayName:   b.DisplayName(),
				DisplayStatus: b.DisplayStatus(),
				Amount:        b.Amount,
				Fields: map[string]any{
					"reference":    b.Reference,
					"service":      b.Service,
					"vendor":       b.VendorDisplayName(),
					"payment_mode": b.Payment,
					"amount":       formatAmount(b.Amount),
					"scheduled_at": formatTimestamp(b.ScheduledAt),
				},
			}
		},
		Joins: func(items []Booking) map[string][]Join {
			users := make([]Join, 0, len(items))
			vendors := make([]Join, 0, len(items))
			for i := range items {
				users = append(users, Join{
					Ref: &items[i].User,
					Fallback: Profile{
						Name:  items[i].CustomerName,
						Email: items[i].CustomerEmail,
						Phone: items[i].CustomerPhone,
					},
				})
				vendors = append(vendors, Join{
					Ref:      &items[i].Vendor,
					Fallback: Profile{Name: items[i].VendorName},
				})
			}
			return map[string][]Join{SourceUsers: users, SourceVendors: vendors}
		},
		Patch: func(item *Booking, def ActionDefinition, payload, data map[string]any) {
			switch def.Kind {
			case "booking.assign_vendor":
				id := stringField(payload, "vendor_id")
				if id == "" {
					return
				}
				name := firstNonEmpty(stringField(data, "vendorName"), stringField(payload, "vendor_name"))
				item.VendorName = name
				if name != "" {
					item.Vendor = ResolvedRef(Profile{ID: id, Name: name})
				} else {
					item.Vendor = UnresolvedRef[Profile](id)
				}
			default:
				patchStatus(&item.Status, def, payload, data)
			}
		},
	}), nil
}

// NewPlansPage builds the AMC plans list page. Plans carry no joins.
func NewPlansPage(fetcher CollectionFetcher[Plan], deps PageDeps) (*Page[Plan], error) {
	desc, err := deps.descriptor(CodePlans)
	if err != nil {
		return nil, err
	}
	return NewPage(PageConfig[Plan]{
		Descriptor:     desc,
		Fetcher:        fetcher,
		Mutator:        deps.Mutator,
		Broadcast:      deps.Broadcast,
		Telemetry:      deps.Telemetry,
		Schemas:        deps.Schemas,
		SearchDebounce: deps.SearchDebounce,
		Matcher: Matcher[Plan]{
			SearchFields: []FieldGetter[Plan]{
				func(p Plan) string { return p.Name },
				func(p Plan) string { return p.Description },
			},
			Status: func(p Plan) string { return p.Status },
		},
		View: func(p Plan) RowView {
			return RowView{
				Fields: map[string]any{
					"price":    formatAmount(p.Price),
					"duration": strconv.Itoa(p.DurationMonths) + " months",
					"features": strconv.Itoa(len(p.Features)),
				},
			}
		},
		Patch: func(item *Plan, def ActionDefinition, payload, data map[string]any) {
			patchStatus(&item.Status, def, payload, data)
		},
	}), nil
}

// NewSubscriptionsPage builds the AMC subscriptions list page.
func NewSubscriptionsPage(fetcher CollectionFetcher[Subscription], deps PageDeps) (*Page[Subscription], error) {
	desc, err := deps.descriptor(CodeSubscriptions)
	if err != nil {
		return nil, err
	}
	return NewPage(PageConfig[Subscription]{
		Descriptor:     desc,
		Fetcher:        fetcher,
		Lookup:         deps.Lookup,
		Mutator:        deps.Mutator,
		Broadcast:      deps.Broadcast,
		Telemetry:      deps.Telemetry,
		Schemas:        deps.Schemas,
		SearchDebounce: deps.SearchDebounce,
		Matcher: Matcher[Subscription]{
			SearchFields: []FieldGetter[Subscription]{
				func(s Subscription) string { return s.PlanName },
				func(s Subscription) string { return s.UserName },
				func(s Subscription) string { return s.UserEmail },
				func(s Subscription) string { return s.DisplayName() },
			},
			Status: func(s Subscription) string { return s.Status },
		},
		View: func(s Subscription) RowView {
			return RowView{
				Fields: map[string]any{
					"plan":       s.PlanName,
					"claims":     fmt.Sprintf("%d/%d", s.ClaimsUsed, s.ClaimsQuota),
					"started_at": formatTimestamp(s.StartedAt),
					"expires_at": formatTimestamp(s.ExpiresAt),
				},
			}
		},
		Joins: func(items []Subscription) map[string][]Join {
			users := make([]Join, 0, len(items))
			for i := range items {
				users = append(users, Join{
					Ref: &items[i].User,
					Fallback: Profile{
						Name:  items[i].UserName,
						Email: items[i].UserEmail,
						Phone: items[i].UserPhone,
					},
				})
			}
			return map[string][]Join{SourceUsers: users}
		},
		Patch: func(item *Subscription, def ActionDefinition, payload, data map[string]any) {
			patchStatus(&item.Status, def, payload, data)
		},
	}), nil
}

// NewTicketsPage builds the support tickets list page. Tickets join users
// twice: the reporter and the assigned agent.
func NewTicketsPage(fetcher CollectionFetcher[Ticket], deps PageDeps) (*Page[Ticket], error) {
	desc, err := deps.descriptor(CodeTickets)
	if err != nil {
		return nil, err
	}
	return NewPage(PageConfig[Ticket]{
		Descriptor:     desc,
		Fetcher:        fetcher,
		Lookup:         deps.Lookup,
		Mutator:        deps.Mutator,
		Broadcast:      deps.Broadcast,
		Telemetry:      deps.Telemetry,
		Schemas:        deps.Schemas,
		SearchDebounce: deps.SearchDebounce,
		Matcher: Matcher[Ticket]{
			SearchFields: []FieldGetter[Ticket]{
				func(t Ticket) string { return t.Subject },
				func(t Ticket) string { return t.Body },
				func(t Ticket) string { return t.UserName },
				func(t Ticket) string { return t.UserEmail },
				func(t Ticket) string { return t.DisplayName() },
			},
			Status:   func(t Ticket) string { return t.Status },
			Priority: func(t Ticket) string { return t.Priority },
		},
		View: func(t Ticket) RowView {
			return RowView{
				Fields: map[string]any{
					"subject":    t.Subject,
					"priority":   t.Priority,
					"category":   t.Category,
					"assignee":   t.AssigneeDisplayName(),
					"created_at": formatTimestamp(t.CreatedAt),
				},
			}
		},
		Joins: func(items []Ticket) map[string][]Join {
			users := make([]Join, 0, 2*len(items))
			for i := range items {
				users = append(users, Join{
					Ref:      &items[i].User,
					Fallback: Profile{Name: items[i].UserName, Email: items[i].UserEmail},
				})
				users = append(users, Join{Ref: &items[i].Assignee})
			}
			return map[string][]Join{SourceUsers: users}
		},
		Patch: func(item *Ticket, def ActionDefinition, payload, data map[string]any) {
			switch def.Kind {
			case "ticket.update_priority":
				if v := firstNonEmpty(stringField(payload, "priority"), stringField(data, "priority")); v != "" {
					item.Priority = v
				}
			case "ticket.assign_agent":
				if id := stringField(payload, "agent_id"); id != "" {
					item.Assignee = UnresolvedRef[Profile](id)
				}
			default:
				patchStatus(&item.Status, def, payload, data)
			}
		},
	}), nil
}

// NewUsersPage builds the platform users list page.
func NewUsersPage(fetcher CollectionFetcher[User], deps PageDeps) (*Page[User], error) {
	desc, err := deps.descriptor(CodeUsers)
	if err != nil {
		return nil, err
	}
	return NewPage(PageConfig[User]{
		Descriptor:     desc,
		Fetcher:        fetcher,
		Mutator:        deps.Mutator,
		Broadcast:      deps.Broadcast,
		Telemetry:      deps.Telemetry,
		Schemas:        deps.Schemas,
		SearchDebounce: deps.SearchDebounce,
		Matcher: Matcher[User]{
			SearchFields: []FieldGetter[User]{
				func(u User) string { return u.Name },
				func(u User) string { return u.Email },
				func(u User) string { return u.Phone },
			},
			Status: func(u User) string { return u.Status },
		},
		View: func(u User) RowView {
			return RowView{
				Fields: map[string]any{
					"email":     u.Email,
					"phone":     u.Phone,
					"role":      u.Role,
					"joined_at": formatTimestamp(u.JoinedAt),
				},
			}
		},
		Patch: func(item *User, def ActionDefinition, payload, data map[string]any) {
			patchStatus(&item.Status, def, payload, data)
		},
	}), nil
}

// NewVendorsPage builds the vendors list page.
func NewVendorsPage(fetcher CollectionFetcher[Vendor], deps PageDeps) (*Page[Vendor], error) {
	desc, err := deps.descriptor(CodeVendors)
	if err != nil {
		return nil, err
	}
	return NewPage(PageConfig[Vendor]{
		Descriptor:     desc,
		Fetcher:        fetcher,
		Mutator:        deps.Mutator,
		Broadcast:      deps.Broadcast,
		Telemetry:      deps.Telemetry,
		Schemas:        deps.Schemas,
		SearchDebounce: deps.SearchDebounce,
		Matcher: Matcher[Vendor]{
			SearchFields: []FieldGetter[Vendor]{
				func(v Vendor) string { return v.Company },
				func(v Vendor) string { return v.Contact },
				func(v Vendor) string { return v.Email },
				func(v Vendor) string { return v.Phone },
			},
			Status: func(v Vendor) string { return v.Status },
		},
		View: func(v Vendor) RowView {
			return RowView{
				Fields: map[string]any{
					"contact":  v.Contact,
					"email":    v.Email,
					"phone":    v.Phone,
					"rating":   strconv.FormatFloat(v.Rating, 'f', 1, 64),
					"services": strconv.Itoa(len(v.Services)),
				},
			}
		},
		Patch: func(item *Vendor, def ActionDefinition, payload, data map[string]any) {
			patchStatus(&item.Status, def, payload, data)
		},
	}), nil
}

// NewCardsPage builds the service catalog cards list page.
func NewCardsPage(fetcher CollectionFetcher[Card], deps PageDeps) (*Page[Card], error) {
	desc, err := deps.descriptor(CodeCards)
	if err != nil {
		return nil, err
	}
	return NewPage(PageConfig[Card]{
		Descriptor:     desc,
		Fetcher:        fetcher,
		Lookup:         deps.Lookup,
		Mutator:        deps.Mutator,
		Broadcast:      deps.Broadcast,
		Telemetry:      deps.Telemetry,
		Schemas:        deps.Schemas,
		SearchDebounce: deps.SearchDebounce,
		Matcher: Matcher[Card]{
			SearchFields: []FieldGetter[Card]{
				func(c Card) string { return c.Title },
				func(c Card) string { return c.Category },
				func(c Card) string { return c.ProviderName },
			},
			Status: func(c Card) string { return c.Status },
		},
		View: func(c Card) RowView {
			return RowView{
				Fields: map[string]any{
					"category": c.Category,
					"price":    formatAmount(c.Price),
					"provider": c.ProviderDisplayName(),
				},
			}
		},
		Joins: func(items []Card) map[string][]Join {
			vendors := make([]Join, 0, len(items))
			for i := range items {
				vendors = append(vendors, Join{
					Ref:      &items[i].Provider,
					Fallback: Profile{Name: items[i].ProviderName},
				})
			}
			return map[string][]Join{SourceVendors: vendors}
		},
		Patch: func(item *Card, def ActionDefinition, payload, data map[string]any) {
			patchStatus(&item.Status, def, payload, data)
		},
	}), nil
}

// NewPaymentsPage builds the payments list page.
func NewPaymentsPage(fetcher CollectionFetcher[Payment], deps PageDeps) (*Page[Payment], error) {
	desc, err := deps.descriptor(CodePayments)
	if err != nil {
		return nil, err
	}
	return NewPage(PageConfig[Payment]{
		Descriptor:     desc,
		Fetcher:        fetcher,
		Lookup:         deps.Lookup,
		Mutator:        deps.Mutator,
		Broadcast:      deps.Broadcast,
		Telemetry:      deps.Telemetry,
		Schemas:        deps.Schemas,
		SearchDebounce: deps.SearchDebounce,
		Matcher: Matcher[Payment]{
			SearchFields: []FieldGetter[Payment]{
				func(p Payment) string { return p.Reference },
				func(p Payment) string { return p.UserName },
				func(p Payment) string { return p.UserEmail },
				func(p Payment) string { return p.DisplayName() },
			},
			Status:      func(p Payment) string { return p.Status },
			PaymentMode: func(p Payment) string { return p.Mode },
		},
		View: func(p Payment) RowView {
			return RowView{
				Amount: p.Amount,
				Fields: map[string]any{
					"reference": p.Reference,
					"amount":    formatAmount(p.Amount),
					"currency":  p.Currency,
					"mode":      p.Mode,
					"paid_at":   formatTimestamp(p.PaidAt),
				},
			}
		},
		Joins: func(items []Payment) map[string][]Join {
			users := make([]Join, 0, len(items))
			for i := range items {
				users = append(users, Join{
					Ref:      &items[i].User,
					Fallback: Profile{Name: items[i].UserName, Email: items[i].UserEmail},
				})
			}
			return map[string][]Join{SourceUsers: users}
		},
		Patch: func(item *Payment, def ActionDefinition, payload, data map[string]any) {
			patchStatus(&item.Status, def, payload, data)
		},
	}), nil
}

// NewWalletsPage builds the vendor wallet ledger page.
func NewWalletsPage(fetcher CollectionFetcher[WalletEntry], deps PageDeps) (*Page[WalletEntry], error) {
	desc, err := deps.descriptor(CodeWallets)
	if err != nil {
		return nil, err
	}
	return NewPage(PageConfig[WalletEntry]{
		Descriptor:     desc,
		Fetcher:        fetcher,
		Lookup:         deps.Lookup,
		Mutator:        deps.Mutator,
		Broadcast:      deps.Broadcast,
		Telemetry:      deps.Telemetry,
		Schemas:        deps.Schemas,
		SearchDebounce: deps.SearchDebounce,
		Matcher: Matcher[WalletEntry]{
			SearchFields: []FieldGetter[WalletEntry]{
				func(w WalletEntry) string { return w.VendorName },
				func(w WalletEntry) string { return w.Note },
				func(w WalletEntry) string { return w.DisplayName() },
			},
			Status: func(w WalletEntry) string { return w.Status },
		},
		View: func(w WalletEntry) RowView {
			return RowView{
				Amount: w.Amount,
				Fields: map[string]any{
					"amount":    formatAmount(w.Amount),
					"direction": w.Direction,
					"balance":   formatAmount(w.Balance),
					"note":      w.Note,
					"at":        formatTimestamp(w.At),
				},
			}
		},
		Joins: func(items []WalletEntry) map[string][]Join {
			vendors := make([]Join, 0, len(items))
			for i := range items {
				vendors = append(vendors, Join{
					Ref:      &items[i].Vendor,
					Fallback: Profile{Name: items[i].VendorName},
				})
			}
			return map[string][]Join{SourceVendors: vendors}
		},
		Patch: func(item *WalletEntry, def ActionDefinition, payload, data map[string]any) {
			patchStatus(&item.Status, def, payload, data)
		},
	}), nil
}

// patchStatus applies a status-style patch using the action's declared
// status field, preferring the server's echoed value over the submitted one.
func patchStatus(target *string, def ActionDefinition, payload, data map[string]any) {
	field := def.StatusField
	if field == "" {
		field = "status"
	}
	if v := firstNonEmpty(stringField(data, field), stringField(payload, field)); v != "" {
		*target = v
	}
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
