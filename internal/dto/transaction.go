package dto

import "sales-dashboard/internal/models"

type IngestResponse struct {
	RunID         string `json:"runId"`
	Message       string `json:"message"`
	InsertedCount int    `json:"insertedCount"`
	SkippedCount  int    `json:"skippedCount"`
}

type TransactionListResponse struct {
	Transactions []*models.Transaction `json:"transactions"`
	TotalItems   int64                 `json:"totalItems"`
}
