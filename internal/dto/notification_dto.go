package dto

// NotificationResponse mirrors the payload of the "notification:new" socket
// event, so the snapshot list and live pushes share one shape.
type NotificationResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Message     string  `json:"message"`
	IsRead      bool    `json:"is_read"`
	TriggeredBy *string `json:"triggered_by,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// DashboardStats feeds the dashboard charts screen.
type DashboardStats struct {
	ClientCount    int64  `json:"client_count"`
	DevisCount     int64  `json:"devis_count"`
	DraftDevis     int64  `json:"draft_devis"`
	ValidatedDevis int64  `json:"validated_devis"`
	InvoiceCount   int64  `json:"invoice_count"`
	MonthRevenue   string `json:"month_revenue"`
	MonthExpense   string `json:"month_expense"`
}
