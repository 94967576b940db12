package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// Category represents the kind of material an item is
type Category string

const (
	CategoryRawMaterialFilm Category = "RAW_MATERIAL_FILM"
	CategoryCoreTube        Category = "CORE_TUBE"
	CategoryAdhesive        Category = "ADHESIVE"
	CategoryFinishedProduct Category = "FINISHED_PRODUCT"
)

// DefaultUnit is used when an item is registered without a unit of measure
const DefaultUnit = "ea"

// Categories lists every category in display order
var Categories = []Category{
	CategoryRawMaterialFilm,
	CategoryCoreTube,
	CategoryAdhesive,
	CategoryFinishedProduct,
}

// Labels used by the shop floor before the enumeration was introduced.
// Keys are NFC normalized.
var legacyCategoryLabels = map[string]Category{
	"원단":  CategoryRawMaterialFilm,
	"지관":  CategoryCoreTube,
	"점착제": CategoryAdhesive,
	"생산품": CategoryFinishedProduct,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryRawMaterialFilm, CategoryCoreTube, CategoryAdhesive, CategoryFinishedProduct:
		return true
	}
	return false
}

// Label returns the legacy Korean label of the category
func (c Category) Label() string {
	for label, category := range legacyCategoryLabels {
		if category == c {
			return label
		}
	}
	return string(c)
}

// ParseCategory parses an enumeration name (case insensitive) or a legacy Korean label.
// Hangul input is NFC normalized first, since some clients send decomposed jamo.
func ParseCategory(s string) (Category, error) {
	label := norm.NFC.String(strings.TrimSpace(s))
	if label == "" {
		return "", NewValidationError("item category is required")
	}
	if c, ok := legacyCategoryLabels[label]; ok {
		return c, nil
	}
	c := Category(strings.ToUpper(label))
	if !c.Valid() {
		return "", NewValidationError(fmt.Sprintf("invalid item category %q", s))
	}
	return c, nil
}

// Item represents a tracked inventory unit in the domain layer
type Item struct {
	ID           uuid.UUID
	Category     Category
	Name         string
	Specs        Specs           // nil when no attributes were recorded
	CurrentStock decimal.Decimal // running total of every ledger change
	Unit         string
	Version      int64 // number of ledger entries applied so far
	CreatedAt    time.Time
}

// Validate ensures the item adheres to domain rules
// Returns an error if validation fails
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return NewValidationError("item name cannot be empty")
	}

	if !i.Category.Valid() {
		return NewValidationError(fmt.Sprintf("invalid item category %q", i.Category))
	}

	if strings.TrimSpace(i.Unit) == "" {
		return NewValidationError("item unit cannot be empty")
	}

	if i.Specs != nil {
		if i.Specs.Category() != i.Category {
			return NewValidationError(fmt.Sprintf("%s specs cannot be attached to a %s item", i.Specs.Category(), i.Category))
		}
		if err := validateAttributes(i.Specs.Attributes()); err != nil {
			return err
		}
	}

	if i.Version < 0 {
		return NewValidationError("item version cannot be negative")
	}

	return nil
}
