package m_bundle

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the bundles table.
type Data struct {
	BundleID      string              `spanner:"bundle_id"`
	Name          string              `spanner:"name"`
	SKUCode       spanner.NullString  `spanner:"sku_code"`
	Logic         string              `spanner:"logic"`
	FixedPrice    spanner.NullNumeric `spanner:"fixed_price"`
	PercentageOff spanner.NullNumeric `spanner:"percentage_off"`
	Status        string              `spanner:"status"`
	Version       int64               `spanner:"version"`
	CreatedAt     time.Time           `spanner:"created_at"`
	UpdatedAt     time.Time           `spanner:"updated_at"`
}
