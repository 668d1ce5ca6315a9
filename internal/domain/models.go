package domain

import "time"

// Status is the sale lifecycle state of a product.
type Status string

const (
	StatusAvailable Status = "Available"
	StatusSold      Status = "Sold"
)

// Flag is one of the independent placement tags a product can carry.
type Flag string

const (
	FlagFeatured    Flag = "featured"
	FlagBestSeller  Flag = "bestseller"
	FlagHighlighted Flag = "highlighted"
)

// Flags lists every placement tag in display order.
var Flags = []Flag{FlagFeatured, FlagBestSeller, FlagHighlighted}

func ParseFlag(s string) (Flag, bool) {
	for _, f := range Flags {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

type Product struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Price            float64    `json:"price"`
	Category         string     `json:"category"`
	Subcategory      string     `json:"subcategory"`
	Condition        string     `json:"condition"`
	ConditionDetails string     `json:"conditionDetails"`
	Length           *float64   `json:"length"`
	Width            *float64   `json:"width"`
	Height           *float64   `json:"height"`
	ImageURLs        []string   `json:"imageUrls"`
	Status           Status     `json:"status"`
	IsFeatured       bool       `json:"isFeatured"`
	IsBestSeller     bool       `json:"isBestSeller"`
	IsHighlighted    bool       `json:"isHighlighted"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	SoldAt           *time.Time `json:"soldAt"`
}

// Has reports whether the product carries the given placement tag.
func (p Product) Has(f Flag) bool {
	switch f {
	case FlagFeatured:
		return p.IsFeatured
	case FlagBestSeller:
		return p.IsBestSeller
	case FlagHighlighted:
		return p.IsHighlighted
	}
	return false
}

// Tags returns the set of placement tags currently on the product.
func (p Product) Tags() []Flag {
	var out []Flag
	for _, f := range Flags {
		if p.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (p Product) IsSold() bool { return p.Status == StatusSold }

// ProductInput carries the descriptive fields accepted by create and update.
// Price is a pointer so a missing value can be told apart from zero.
type ProductInput struct {
	Name             string
	Description      string
	Price            *float64
	Category         string
	Subcategory      string
	Condition        string
	ConditionDetails string
	Length           *float64
	Width            *float64
	Height           *float64
}

type Stats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Sold      int `json:"sold"`
}

type SweepResult struct {
	DeletedCount int `json:"deletedCount"`
}

// StatusEvent is one entry of a product's change history.
type StatusEvent struct {
	ProductID int64     `json:"productId" bson:"product_id"`
	Action    string    `json:"action" bson:"action"`
	At        time.Time `json:"at" bson:"at"`
}
