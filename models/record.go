package models

import "fmt"

// FieldCount is the number of columns every CSV row must carry.
const FieldCount = 13

// Columns is the target table layout, in CSV order.
var Columns = []string{
	"id", "Name", "Description", "Brand", "Category", "Price", "Currency",
	"Stock", "EAN", "Color", "Size", "Availability", "Internal ID",
}

// Record is one product row as read from the CSV file. Price and Stock stay
// text until insert time.
type Record struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Brand        string `json:"brand"`
	Category     string `json:"category"`
	Price        string `json:"price"`
	Currency     string `json:"currency"`
	Stock        string `json:"stock"`
	EAN          string `json:"ean"`
	Color        string `json:"color"`
	Size         string `json:"size"`
	Availability string `json:"availability"`
	InternalID   string `json:"internal_id"`
}

func RecordFromFields(fields []string) (Record, error) {
	if len(fields) != FieldCount {
		return Record{}, fmt.Errorf("%w: expected %d fields, got %d", ErrSchemaViolation, FieldCount, len(fields))
	}
	return Record{
		ID:           fields[0],
		Name:         fields[1],
		Description:  fields[2],
		Brand:        fields[3],
		Category:     fields[4],
		Price:        fields[5],
		Currency:     fields[6],
		Stock:        fields[7],
		EAN:          fields[8],
		Color:        fields[9],
		Size:         fields[10],
		Availability: fields[11],
		InternalID:   fields[12],
	}, nil
}
