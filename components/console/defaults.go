package console

// Topic names shared between mutating pages and the pages that listen.
const (
	TopicBookingUpdated      = "booking-updated"
	TopicPlanUpdated         = "plan-updated"
	TopicSubscriptionUpdated = "subscription-updated"
	TopicTicketUpdated       = "ticket-updated"
	TopicUserUpdated         = "user-updated"
	TopicVendorUpdated       = "vendor-updated"
	TopicCardUpdated         = "card-updated"
	TopicPaymentUpdated      = "payment-updated"
	TopicWalletUpdated       = "wallet-updated"
)

// DefaultDescriptors returns the stock admin console collections.
func DefaultDescriptors() []Descriptor {
	return []Descriptor{
		{
			Code:          "admin.console.bookings",
			Name:          "Bookings",
			Description:   "Service bookings with vendor dispatch.",
			Topic:         TopicBookingUpdated,
			ListPath:      "/admin/bookings",
			ProfileSource: "vendors",
			SearchFields:  []string{"customerName", "customerEmail", "bookingReference", "serviceName"},
			StatusValues:  []string{"all", "pending", "confirmed", "in_progress", "completed", "cancelled"},
			Badges: map[string]string{
				"pending":     "amber",
				"confirmed":   "blue",
				"in_progress": "indigo",
				"completed":   "green",
				"cancelled":   "red",
			},
			Columns: []Column{
				{Key: "reference", Label: "Reference"},
				{Key: "customer", Label: "Customer"},
				{Key: "service", Label: "Service"},
				{Key: "vendor", Label: "Vendor"},
				{Key: "status", Label: "Status"},
			},
			Actions: []ActionDefinition{
				{
					Kind:     "booking.assign_vendor",
					Name:     "Assign vendor",
					Method:   "PATCH",
					Path:     "/admin/bookings/{id}/assign",
					Policy:   ApplyPolicyPatch,
					Topic:    TopicBookingUpdated,
					Required: []string{"vendor_id"},
				},
				{
					Kind:        "booking.update_status",
					Name:        "Update status",
					Method:      "PATCH",
					Path:        "/admin/bookings/{id}/status",
					Policy:      ApplyPolicyPatch,
					Topic:       TopicBookingUpdated,
					Required:    []string{"status"},
					StatusField: "status",
				},
			},
		},
		{
			Code:         "admin.console.plans",
			Name:         "AMC Plans",
			Description:  "Annual maintenance contract plans.",
			Topic:        TopicPlanUpdated,
			ListPath:     "/admin/amc/plans",
			SearchFields: []string{"name", "description"},
			StatusValues: []string{"all", "active", "archived"},
			Badges:       map[string]string{"active": "green", "archived": "gray"},
			Columns: []Column{
				{Key: "name", Label: "Plan"},
				{Key: "price", Label: "Price"},
				{Key: "duration", Label: "Duration"},
				{Key: "status", Label: "Status"},
			},
			Actions: []ActionDefinition{
				{
					Kind:        "plan.update_status",
					Name:        "Update status",
					Method:      "PATCH",
					Path:        "/admin/amc/plans/{id}/status",
					Policy:      ApplyPolicyPatch,
					Topic:       TopicPlanUpdated,
					Required:    []string{"status"},
					StatusField: "status",
				},
			},
		},
		{
			Code:          "admin.console.subscriptions",
			Name:          "AMC Subscriptions",
			Description:   "Active maintenance subscriptions and warranty claims.",
			Topic:         TopicSubscriptionUpdated,
			ListPath:      "/admin/amc/subscriptions",
			ProfileSource: "users",
			SearchFields:  []string{"userName", "userEmail", "planName"},
			StatusValues:  []string{"all", "active", "expired", "cancelled"},
			Badges:        map[string]string{"active": "green", "expired": "gray", "cancelled": "red"},
			Columns: []Column{
				{Key: "user", Label: "Customer"},
				{Key: "plan", Label: "Plan"},
				{Key: "claims", Label: "Claims"},
				{Key: "expires", Label: "Expires"},
				{Key: "status", Label: "Status"},
			},
			Actions: []ActionDefinition{
				{
					Kind:     "subscription.approve_claim",
					Name:     "Approve claim",
					Method:   "POST",
					Path:     "/admin/amc/subscriptions/{id}/claims/approve",
					Policy:   ApplyPolicyRefetch,
					Topic:    TopicSubscriptionUpdated,
					Required: []string{"claim_id"},
				},
				{
					Kind:     "subscription.reject_claim",
					Name:     "Reject claim",
					Method:   "POST",
					Path:     "/admin/amc/subscriptions/{id}/claims/reject",
					Policy:   ApplyPolicyRefetch,
					Topic:    TopicSubscriptionUpdated,
					Required: []string{"claim_id", "note"},
				},
				{
					Kind:        "subscription.cancel",
					Name:        "Cancel subscription",
					Method:      "PATCH",
					Path:        "/admin/amc/subscriptions/{id}/cancel",
					Policy:      ApplyPolicyPatch,
					Topic:       TopicSubscriptionUpdated,
					StatusField: "status",
				},
			},
		},
		{
			Code:          "admin.console.tickets",
			Name:          "Support Tickets",
			Description:   "Customer support queue.",
			Topic:         TopicTicketUpdated,
			ListPath:      "/admin/support/tickets",
			ProfileSource: "users",
			SearchFields:  []string{"subject", "userName", "userEmail", "category"},
			StatusValues:  []string{"all", "open", "in_progress", "resolved", "closed"},
			Badges: map[string]string{
				"open":        "amber",
				"in_progress": "blue",
				"resolved":    "green",
				"closed":      "gray",
			},
			Columns: []Column{
				{Key: "subject", Label: "Subject"},
				{Key: "user", Label: "Customer"},
				{Key: "priority", Label: "Priority"},
				{Key: "assignee", Label: "Assignee"},
				{Key: "status", Label: "Status"},
			},
			Actions: []ActionDefinition{
				{
					Kind:        "ticket.update_status",
					Name:        "Update status",
					Method:      "PATCH",
					Path:        "/admin/support/tickets/{id}/status",
					Policy:      ApplyPolicyPatch,
					Topic:       TopicTicketUpdated,
					Required:    []string{"status"},
					StatusField: "status",
				},
				{
					Kind:     "ticket.update_priority",
					Name:     "Update priority",
					Method:   "PATCH",
					Path:     "/admin/support/tickets/{id}/priority",
					Policy:   ApplyPolicyPatch,
					Topic:    TopicTicketUpdated,
					Required: []string{"priority"},
				},
				{
					Kind:     "ticket.assign_agent",
					Name:     "Assign agent",
					Method:   "PATCH",
					Path:     "/admin/support/tickets/{id}/assign",
					Policy:   ApplyPolicyPatch,
					Topic:    TopicTicketUpdated,
					Required: []string{"agent_id"},
				},
			},
		},
		{
			Code:         "admin.console.users",
			Name:         "Users",
			Description:  "Platform user accounts.",
			Topic:        TopicUserUpdated,
			ListPath:     "/admin/users",
			SearchFields: []string{"name", "email", "phone"},
			StatusValues: []string{"all", "active", "suspended", "deleted"},
			Badges:       map[string]string{"active": "green", "suspended": "amber", "deleted": "red"},
			Columns: []Column{
				{Key: "name", Label: "Name"},
				{Key: "email", Label: "Email"},
				{Key: "role", Label: "Role"},
				{Key: "status", Label: "Status"},
			},
			Actions: []ActionDefinition{
				{
					Kind:        "user.update_status",
					Name:        "Update status",
					Method:      "PATCH",
					Path:        "/admin/users/{id}/status",
					Policy:      ApplyPolicyPatch,
					Topic:       TopicUserUpdated,
					Required:    []string{"status"},
					StatusField: "status",
				},
			},
		},
		{
			Code:         "admin.console.vendors",
			Name:         "Vendors",
			Description:  "Service vendors and verification state.",
			Topic:        TopicVendorUpdated,
			ListPath:     "/admin/vendors",
			SearchFields: []string{"companyName", "contactName", "email", "phone"},
			StatusValues: []string{"all", "pending", "verified", "suspended"},
			Badges:       map[string]string{"pending": "amber", "verified": "green", "suspended": "red"},
			Columns: []Column{
				{Key: "company", Label: "Company"},
				{Key: "contact", Label: "Contact"},
				{Key: "rating", Label: "Rating"},
				{Key: "status", Label: "Status"},
			},
			Actions: []ActionDefinition{
				{
					Kind:        "vendor.update_status",
					Name:        "Update status",
					Method:      "PATCH",
					Path:        "/admin/vendors/{id}/status",
					Policy:      ApplyPolicyPatch,
					Topic:       TopicVendorUpdated,
					Required:    []string{"status"},
					StatusField: "status",
				},
			},
		},
		{
			Code:          "admin.console.cards",
			Name:          "Service Cards",
			Description:   "Service-provider catalog cards.",
			Topic:         TopicCardUpdated,
			ListPath:      "/admin/cards",
			ProfileSource: "vendors",
			SearchFields:  []string{"title", "category", "providerName"},
			StatusValues:  []string{"all", "draft", "published", "retired"},
			Badges:        map[string]string{"draft": "gray", "published": "green", "retired": "red"},
			Columns: []Column{
				{Key: "title", Label: "Title"},
				{Key: "category", Label: "Category"},
				{Key: "provider", Label: "Provider"},
				{Key: "price", Label: "Price"},
				{Key: "status", Label: "Status"},
			},
			Actions: []ActionDefinition{
				{
					Kind:        "card.update_status",
					Name:        "Update status",
					Method:      "PATCH",
					Path:        "/admin/cards/{id}/status",
					Policy:      ApplyPolicyPatch,
					Topic:       TopicCardUpdated,
					Required:    []string{"status"},
					StatusField: "status",
				},
			},
		},
		{
			Code:          "admin.console.payments",
			Name:          "Payments",
			Description:   "Payment records with refund handling.",
			Topic:         TopicPaymentUpdated,
			ListPath:      "/admin/payments",
			ProfileSource: "users",
			SearchFields:  []string{"transactionId", "userName", "userEmail"},
			StatusValues:  []string{"all", "paid", "failed", "refunded"},
			Badges:        map[string]string{"paid": "green", "failed": "red", "refunded": "gray"},
			Columns: []Column{
				{Key: "reference", Label: "Transaction"},
				{Key: "user", Label: "Customer"},
				{Key: "amount", Label: "Amount"},
				{Key: "mode", Label: "Mode"},
				{Key: "status", Label: "Status"},
			},
			Actions: []ActionDefinition{
				{
					Kind:     "payment.process_refund",
					Name:     "Process refund",
					Method:   "POST",
					Path:     "/admin/payments/{id}/refund",
					Policy:   ApplyPolicyRefetch,
					Topic:    TopicPaymentUpdated,
					Required: []string{"amount", "reason"},
					PayloadSchema: map[string]any{
						"type":     "object",
						"required": []any{"amount", "reason"},
						"properties": map[string]any{
							"amount": map[string]any{"type": "number", "exclusiveMinimum": 0},
							"reason": map[string]any{"type": "string", "minLength": 1},
						},
					},
				},
			},
		},
		{
			Code:          "admin.console.wallets",
			Name:          "Vendor Wallets",
			Description:   "Vendor wallet ledger with manual adjustments.",
			Topic:         TopicWalletUpdated,
			ListPath:      "/admin/wallets",
			ProfileSource: "vendors",
			SearchFields:  []string{"vendorName", "note"},
			StatusValues:  []string{"all", "settled", "pending", "reversed"},
			Badges:        map[string]string{"settled": "green", "pending": "amber", "reversed": "red"},
			Columns: []Column{
				{Key: "vendor", Label: "Vendor"},
				{Key: "amount", Label: "Amount"},
				{Key: "direction", Label: "Direction"},
				{Key: "balance", Label: "Balance"},
				{Key: "status", Label: "Status"},
			},
			Actions: []ActionDefinition{
				{
					Kind:     "wallet.adjust",
					Name:     "Adjust balance",
					Method:   "POST",
					Path:     "/admin/wallets/{id}/adjust",
					Policy:   ApplyPolicyRefetch,
					Topic:    TopicWalletUpdated,
					Required: []string{"amount", "direction"},
					PayloadSchema: map[string]any{
						"type":     "object",
						"required": []any{"amount", "direction"},
						"properties": map[string]any{
							"amount":    map[string]any{"type": "number", "exclusiveMinimum": 0},
							"direction": map[string]any{"type": "string", "enum": []any{"credit", "debit"}},
						},
					},
				},
			},
		},
	}
}
