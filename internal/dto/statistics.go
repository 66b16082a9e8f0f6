package dto

import "sales-dashboard/internal/models"

type TotalSaleResponse struct {
	TotalSaleAmount float64 `json:"totalSaleAmount"`
}

type SoldItemsResponse struct {
	TotalSoldItems int64 `json:"totalSoldItems"`
}

type NotSoldItemsResponse struct {
	TotalNotSoldItems int64 `json:"totalNotSoldItems"`
}

type PriceRangeResponse struct {
	Data []models.PriceRangeCount `json:"data"`
}

type CategoryResponse struct {
	Data []models.CategoryCount `json:"data"`
}

// CombinedData carries both chart series. A series whose pipeline failed is
// null.
type CombinedData struct {
	Range      []models.PriceRangeCount `json:"range"`
	Categories []models.CategoryCount   `json:"categories"`
}

type CombinedResponse struct {
	Data CombinedData `json:"data"`
}
