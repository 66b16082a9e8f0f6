package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func ptr[T any](v T) *T { return &v }

func validRecord() RawRecord {
	return RawRecord{
		ID:          ptr(int64(7)),
		Title:       "Backpack",
		Price:       ptr(250.0),
		Description: "Fits a laptop",
		Category:    "A",
		Image:       "https://img.example.com/7.jpg",
		Sold:        ptr(true),
		DateOfSale:  "2024-03-15",
	}
}

func TestMonthOf(t *testing.T) {
	tests := []struct {
		date    string
		want    string
		wantErr bool
	}{
		{"2024-03-15", "March", false},
		{"2021-11-27T20:29:54+05:30", "November", false},
		{"2022-01-01T00:10:00+05:30", "January", false},
		{"2022-07-04T10:00:00", "July", false},
		{"", "", true},
		{"15/03/2024", "", true},
		{"2024-13-01", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got, err := MonthOf(tt.date)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MonthOf(%q) error = %v, wantErr %v", tt.date, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("MonthOf(%q) = %q, want %q", tt.date, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *RawRecord)
		wantErr string
	}{
		{name: "valid", mutate: func(r *RawRecord) {}},
		{name: "zero price and unsold allowed", mutate: func(r *RawRecord) { r.Price = ptr(0.0); r.Sold = ptr(false) }},
		{name: "missing id", mutate: func(r *RawRecord) { r.ID = nil }, wantErr: "id is required"},
		{name: "missing title", mutate: func(r *RawRecord) { r.Title = "" }, wantErr: "title is required"},
		{name: "missing sold", mutate: func(r *RawRecord) { r.Sold = nil }, wantErr: "sold is required"},
		{name: "missing price", mutate: func(r *RawRecord) { r.Price = nil }, wantErr: "price is required"},
		{name: "negative price", mutate: func(r *RawRecord) { r.Price = ptr(-1.0) }, wantErr: "price must be greater than or equal to 0"},
		{name: "bad image", mutate: func(r *RawRecord) { r.Image = "not an image" }, wantErr: "image must be a URI"},
		{name: "bad date", mutate: func(r *RawRecord) { r.DateOfSale = "yesterday" }, wantErr: "unparseable dateOfSale"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(&r)
			tx, err := Normalize(r)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Normalize() unexpected error: %v", err)
				}
				if tx.ID != 7 || tx.Month != "March" {
					t.Errorf("Normalize() = %+v, want id 7 in March", tx)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Normalize() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestClientFetch(t *testing.T) {
	body := `[{"id":1,"title":"Shirt","price":29.5,"description":"Cotton","category":"men's clothing","image":"https://img.example.com/1.jpg","sold":false,"dateOfSale":"2021-11-27T20:29:54+05:30"}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zap.NewNop())
	records, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if *records[0].ID != 1 || *records[0].Sold || records[0].Category != "men's clothing" {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestClientFetch_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-2xx", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) }},
		{"not json", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("<html>")) }},
		{"object instead of list", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"id":1}`)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(srv.URL, time.Second, zap.NewNop())
			if _, err := c.Fetch(context.Background()); err == nil {
				t.Error("Fetch() expected error, got nil")
			}
		})
	}
}

func TestClientFetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second, zap.NewNop())
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Error("Fetch() expected error for closed server, got nil")
	}
}
