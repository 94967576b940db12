package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Specs is the category specific attribute set of an item.
// Every category has exactly one variant, so an adhesive type can never
// end up on a core tube.
type Specs interface {
	Category() Category
	Attributes() SpecAttributes
}

// SpecAttributes is the flat attribute bag used on the wire and in storage.
// Only the fields relevant to the item category may be set.
type SpecAttributes struct {
	Color        string           `json:"color,omitempty"`
	Thickness    *decimal.Decimal `json:"thickness,omitempty"`
	Width        *decimal.Decimal `json:"width,omitempty"`
	Length       *decimal.Decimal `json:"length,omitempty"`
	CoreType     string           `json:"coreType,omitempty"`
	AdhesiveType string           `json:"adhesiveType,omitempty"`
}

// IsZero reports whether no attribute is set
func (a SpecAttributes) IsZero() bool {
	return a.Color == "" && a.Thickness == nil && a.Width == nil && a.Length == nil &&
		a.CoreType == "" && a.AdhesiveType == ""
}

// FilmSpecs describes a raw material film roll (color, thickness in mic, width in mm, length in m)
type FilmSpecs struct {
	Color     string
	Thickness *decimal.Decimal
	Width     *decimal.Decimal
	Length    *decimal.Decimal
}

func (FilmSpecs) Category() Category { return CategoryRawMaterialFilm }

func (s FilmSpecs) Attributes() SpecAttributes {
	return SpecAttributes{Color: s.Color, Thickness: s.Thickness, Width: s.Width, Length: s.Length}
}

// CoreTubeSpecs describes a paper core tube
type CoreTubeSpecs struct {
	CoreType string
	Width    *decimal.Decimal
	Length   *decimal.Decimal
}

func (CoreTubeSpecs) Category() Category { return CategoryCoreTube }

func (s CoreTubeSpecs) Attributes() SpecAttributes {
	return SpecAttributes{CoreType: s.CoreType, Width: s.Width, Length: s.Length}
}

// AdhesiveSpecs describes an adhesive batch
type AdhesiveSpecs struct {
	AdhesiveType string
}

func (AdhesiveSpecs) Category() Category { return CategoryAdhesive }

func (s AdhesiveSpecs) Attributes() SpecAttributes {
	return SpecAttributes{AdhesiveType: s.AdhesiveType}
}

// FinishedProductSpecs describes a finished roll, which carries the attributes
// of every component it was made from.
type FinishedProductSpecs struct {
	Color        string
	Thickness    *decimal.Decimal
	Width        *decimal.Decimal
	Length       *decimal.Decimal
	CoreType     string
	AdhesiveType string
}

func (FinishedProductSpecs) Category() Category { return CategoryFinishedProduct }

func (s FinishedProductSpecs) Attributes() SpecAttributes {
	return SpecAttributes{
		Color:        s.Color,
		Thickness:    s.Thickness,
		Width:        s.Width,
		Length:       s.Length,
		CoreType:     s.CoreType,
		AdhesiveType: s.AdhesiveType,
	}
}

// NewSpecs builds the variant for category c from a flat attribute bag.
// Attributes that do not apply to the category are rejected.
// An empty bag yields nil specs.
func NewSpecs(c Category, a SpecAttributes) (Specs, error) {
	if !c.Valid() {
		return nil, NewValidationError(fmt.Sprintf("invalid item category %q", c))
	}
	a.Color = strings.TrimSpace(a.Color)
	a.CoreType = strings.TrimSpace(a.CoreType)
	a.AdhesiveType = strings.TrimSpace(a.AdhesiveType)

	if a.IsZero() {
		return nil, nil
	}
	if err := validateAttributes(a); err != nil {
		return nil, err
	}

	var unexpected []string
	reject := func(set bool, name string) {
		if set {
			unexpected = append(unexpected, name)
		}
	}

	var specs Specs
	switch c {
	case CategoryRawMaterialFilm:
		reject(a.CoreType != "", "coreType")
		reject(a.AdhesiveType != "", "adhesiveType")
		specs = FilmSpecs{Color: a.Color, Thickness: a.Thickness, Width: a.Width, Length: a.Length}
	case CategoryCoreTube:
		reject(a.Color != "", "color")
		reject(a.Thickness != nil, "thickness")
		reject(a.AdhesiveType != "", "adhesiveType")
		specs = CoreTubeSpecs{CoreType: a.CoreType, Width: a.Width, Length: a.Length}
	case CategoryAdhesive:
		reject(a.Color != "", "color")
		reject(a.Thickness != nil, "thickness")
		reject(a.Width != nil, "width")
		reject(a.Length != nil, "length")
		reject(a.CoreType != "", "coreType")
		specs = AdhesiveSpecs{AdhesiveType: a.AdhesiveType}
	case CategoryFinishedProduct:
		specs = FinishedProductSpecs(a)
	}

	if len(unexpected) > 0 {
		return nil, NewValidationError(fmt.Sprintf("%s does not apply to %s items", strings.Join(unexpected, ", "), c))
	}
	return specs, nil
}

// MarshalSpecs encodes specs as the flat JSON attribute object.
// Nil specs encode as an empty object.
func MarshalSpecs(s Specs) ([]byte, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.Attributes())
}

// UnmarshalSpecs decodes a flat JSON attribute object into the variant for c.
// Unknown keys are rejected.
func UnmarshalSpecs(c Category, data []byte) (Specs, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()

	var attrs SpecAttributes
	if err := dec.Decode(&attrs); err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid item specs: %v", err))
	}
	return NewSpecs(c, attrs)
}

func validateAttributes(a SpecAttributes) error {
	dims := []struct {
		name  string
		value *decimal.Decimal
	}{
		{"thickness", a.Thickness},
		{"width", a.Width},
		{"length", a.Length},
	}
	for _, d := range dims {
		if d.value != nil && d.value.LessThanOrEqual(decimal.Zero) {
			return NewValidationError(fmt.Sprintf("item %s must be positive", d.name))
		}
	}
	return nil
}
