package models

// Transaction is one product sale record as stored. Month is derived from
// DateOfSale at ingestion time and never recomputed.
type Transaction struct {
	ID          int64   `db:"id" json:"id"`
	Title       string  `db:"title" json:"title"`
	Description string  `db:"description" json:"description"`
	Price       float64 `db:"price" json:"price"`
	Category    string  `db:"category" json:"category"`
	Image       string  `db:"image" json:"image"`
	Sold        bool    `db:"sold" json:"sold"`
	DateOfSale  string  `db:"date_of_sale" json:"dateOfSale"`
	Month       string  `db:"month" json:"month"`
}

// ListFilter selects a page of transactions. Offset/Limit are ignored when
// Paginate is false.
type ListFilter struct {
	Search   string
	Paginate bool
	Offset   uint64
	Limit    uint64
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type PriceRangeCount struct {
	PriceRange string `json:"priceRange"`
	Count      int64  `json:"count"`
}
