package feed

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"sales-dashboard/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their feed (json) names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// RawRecord is a feed entry as published. Pointer fields distinguish a
// missing value from a zero one.
type RawRecord struct {
	ID          *int64   `json:"id" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Description string   `json:"description" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Image       string   `json:"image" validate:"required,uri"`
	Sold        *bool    `json:"sold" validate:"required"`
	DateOfSale  string   `json:"dateOfSale" validate:"required"`
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// MonthOf returns the English month name of a feed date. The month is read in
// the date's own offset.
func MonthOf(dateOfSale string) (string, error) {
	s := strings.TrimSpace(dateOfSale)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Month().String(), nil
		}
	}
	return "", fmt.Errorf("unparseable dateOfSale %q", dateOfSale)
}

// Normalize validates a raw record and builds the stored transaction.
func Normalize(raw RawRecord) (*models.Transaction, error) {
	if err := validate.Struct(raw); err != nil {
		return nil, describe(raw, err)
	}

	month, err := MonthOf(raw.DateOfSale)
	if err != nil {
		return nil, fmt.Errorf("record %d: %w", *raw.ID, err)
	}

	return &models.Transaction{
		ID:          *raw.ID,
		Title:       raw.Title,
		Description: raw.Description,
		Price:       *raw.Price,
		Category:    raw.Category,
		Image:       raw.Image,
		Sold:        *raw.Sold,
		DateOfSale:  raw.DateOfSale,
		Month:       month,
	}, nil
}

func describe(raw RawRecord, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	ref := "record without id"
	if raw.ID != nil {
		ref = fmt.Sprintf("record %d", *raw.ID)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "gte":
			msgs = append(msgs, fe.Field()+" must be greater than or equal to "+fe.Param())
		case "uri":
			msgs = append(msgs, fe.Field()+" must be a URI")
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return fmt.Errorf("%s: %s", ref, strings.Join(msgs, ", "))
}
