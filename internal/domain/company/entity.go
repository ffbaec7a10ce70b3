package company

// Company is one tracked equity: a ticker symbol and a display name.
// The tracked set is a static list supplied by configuration.
type Company struct {
	ID     int64  `db:"id"`
	Ticker string `db:"ticker"`
	Name   string `db:"name"`
}
