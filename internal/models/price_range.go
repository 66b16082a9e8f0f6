package models

import "math"

// PriceRange is one histogram bucket. Upper is inclusive; the last bucket is
// unbounded.
type PriceRange struct {
	Label string
	Upper float64
}

// PriceRanges lists the histogram buckets in output order.
var PriceRanges = []PriceRange{
	{Label: "0-100", Upper: 100},
	{Label: "101-200", Upper: 200},
	{Label: "201-300", Upper: 300},
	{Label: "301-400", Upper: 400},
	{Label: "401-500", Upper: 500},
	{Label: "501-600", Upper: 600},
	{Label: "601-700", Upper: 700},
	{Label: "701-800", Upper: 800},
	{Label: "801-900", Upper: 900},
	{Label: "901-above", Upper: math.Inf(1)},
}

// PriceRangeFor returns the label of the first bucket whose upper bound is
// not below price.
func PriceRangeFor(price float64) string {
	for _, r := range PriceRanges {
		if price <= r.Upper {
			return r.Label
		}
	}
	return PriceRanges[len(PriceRanges)-1].Label
}
