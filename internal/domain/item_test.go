package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/unicode/norm"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr bool
		errMsg  string
	}{
		{
			name: "Finished product without specs should pass",
			item: Item{
				ID:           uuid.New(),
				Category:     CategoryFinishedProduct,
				Name:         "Blue Film 38mic",
				CurrentStock: decimal.Zero,
				Unit:         "roll",
			},
			wantErr: false,
		},
		{
			name: "Film with matching specs should pass",
			item: Item{
				ID:       uuid.New(),
				Category: CategoryRawMaterialFilm,
				Name:     "Clear film",
				Specs:    FilmSpecs{Color: "clear", Thickness: dec("40"), Width: dec("1040")},
				Unit:     DefaultUnit,
			},
			wantErr: false,
		},
		{
			name: "Item with empty name should fail",
			item: Item{
				ID:       uuid.New(),
				Category: CategoryAdhesive,
				Name:     "   ",
				Unit:     DefaultUnit,
			},
			wantErr: true,
			errMsg:  "item name cannot be empty",
		},
		{
			name: "Item with unknown category should fail",
			item: Item{
				ID:       uuid.New(),
				Category: Category("FABRIC"),
				Name:     "Mystery",
				Unit:     DefaultUnit,
			},
			wantErr: true,
			errMsg:  "invalid item category",
		},
		{
			name: "Item with empty unit should fail",
			item: Item{
				ID:       uuid.New(),
				Category: CategoryCoreTube,
				Name:     "3 inch core",
			},
			wantErr: true,
			errMsg:  "item unit cannot be empty",
		},
		{
			name: "Adhesive specs on a core tube should fail",
			item: Item{
				ID:       uuid.New(),
				Category: CategoryCoreTube,
				Name:     "3 inch core",
				Specs:    AdhesiveSpecs{AdhesiveType: "acrylic"},
				Unit:     DefaultUnit,
			},
			wantErr: true,
			errMsg:  "ADHESIVE specs cannot be attached to a CORE_TUBE item",
		},
		{
			name: "Non-positive dimension should fail",
			item: Item{
				ID:       uuid.New(),
				Category: CategoryRawMaterialFilm,
				Name:     "Broken film",
				Specs:    FilmSpecs{Width: dec("0")},
				Unit:     DefaultUnit,
			},
			wantErr: true,
			errMsg:  "item width must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, IsValidation(err))
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    Category
		wantErr bool
	}{
		{"RAW_MATERIAL_FILM", CategoryRawMaterialFilm, false},
		{"finished_product", CategoryFinishedProduct, false},
		{" CORE_TUBE ", CategoryCoreTube, false},
		{"원단", CategoryRawMaterialFilm, false},
		{"지관", CategoryCoreTube, false},
		{"점착제", CategoryAdhesive, false},
		{"생산품", CategoryFinishedProduct, false},
		// decomposed jamo as sent by some macOS clients
		{norm.NFD.String("점착제"), CategoryAdhesive, false},
		{"", "", true},
		{"FABRIC", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, IsValidation(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategory_Label(t *testing.T) {
	assert.Equal(t, "원단", CategoryRawMaterialFilm.Label())
	assert.Equal(t, "생산품", CategoryFinishedProduct.Label())
	assert.Equal(t, "UNKNOWN", Category("UNKNOWN").Label())
}
