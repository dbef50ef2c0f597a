package reports

import "time"

// Dashboard holds headline counts.
type Dashboard struct {
	TotalUsers       int64     `json:"totalUsers"`
	TotalProducts    int64     `json:"totalProducts"`
	ActiveProducts   int64     `json:"activeProducts"`
	InactiveProducts int64     `json:"inactiveProducts"`
	Timestamp        time.Time `json:"timestamp"`
}

// UserRow is one line of the user report.
type UserRow struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProductRow is one line of the product report.
type ProductRow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	Status    string    `json:"status"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// Placeholders for unresolved references.
const (
	NoRole         = "No Role"
	UnknownCreator = "Unknown"
)
