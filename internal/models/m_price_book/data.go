package m_price_book

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the price_books table.
type Data struct {
	PriceBookID string             `spanner:"price_book_id"`
	Name        string             `spanner:"name"`
	Market      string             `spanner:"market"`
	Channel     string             `spanner:"channel"`
	Currency    string             `spanner:"currency"`
	ValidFrom   time.Time          `spanner:"valid_from"`
	ValidTo     spanner.NullTime   `spanner:"valid_to"`
	Status      string             `spanner:"status"`
	ApprovedBy  spanner.NullString `spanner:"approved_by"`
	ApprovedAt  spanner.NullTime   `spanner:"approved_at"`
	Version     int64              `spanner:"version"`
	CreatedAt   time.Time          `spanner:"created_at"`
	UpdatedAt   time.Time          `spanner:"updated_at"`
}
