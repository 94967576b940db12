package seeder

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/stockcal-backend/internal/adapter/textenc"
	"github.com/simaogato/stockcal-backend/internal/domain"
	"github.com/simaogato/stockcal-backend/internal/usecase/catalog"
)

// Columns of a catalog file. Only category and name are required; order is free.
const (
	ColCategory     = "category"
	ColName         = "name"
	ColUnit         = "unit"
	ColColor        = "color"
	ColThickness    = "thickness"
	ColWidth        = "width"
	ColLength       = "length"
	ColCoreType     = "core_type"
	ColAdhesiveType = "adhesive_type"
)

var knownColumns = map[string]bool{
	ColCategory: true, ColName: true, ColUnit: true, ColColor: true, ColThickness: true,
	ColWidth: true, ColLength: true, ColCoreType: true, ColAdhesiveType: true,
}

// catalogRow is one validated line of a catalog file
type catalogRow struct {
	category domain.Category
	input    catalog.RegisterItemInput
}

// Result counts what a seeding run did
type Result struct {
	Created int
	Skipped int
}

// CatalogSeeder registers the items listed in a catalog CSV that are not yet stored
type CatalogSeeder struct {
	repo    domain.ItemRepository
	catalog *catalog.CatalogService
	logger  logrus.FieldLogger
}

// NewCatalogSeeder creates a new CatalogSeeder instance
func NewCatalogSeeder(repo domain.ItemRepository, logger logrus.FieldLogger) *CatalogSeeder {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	return &CatalogSeeder{
		repo:    repo,
		catalog: catalog.NewCatalogService(repo, logger),
		logger:  logger,
	}
}

// SeedFile opens path and seeds from it
func (s *CatalogSeeder) SeedFile(ctx context.Context, path, encoding string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	return s.Seed(ctx, f, encoding)
}

// Seed ensures every item in the catalog exists, matched by category and name.
// The whole file is parsed before anything is written, so a malformed row
// leaves the store untouched. Existing items are never modified.
func (s *CatalogSeeder) Seed(ctx context.Context, r io.Reader, encoding string) (Result, error) {
	decoded, err := textenc.NewReader(r, encoding)
	if err != nil {
		return Result{}, domain.NewValidationError(err.Error())
	}

	rows, err := parseCatalog(decoded)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for _, row := range rows {
		_, err := s.repo.FindByName(ctx, row.category, row.input.Name)
		if err == nil {
			result.Skipped++
			continue
		}
		if !domain.IsNotFound(err) {
			return result, err
		}

		if _, err := s.catalog.RegisterItem(ctx, row.input); err != nil {
			return result, err
		}
		result.Created++
	}

	s.logger.WithFields(logrus.Fields{
		"created": result.Created,
		"skipped": result.Skipped,
	}).Info("catalog seeded")

	return result, nil
}

func parseCatalog(r io.Reader) ([]catalogRow, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid catalog header: %v", err))
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.ToLower(strings.TrimSpace(col))
		if !knownColumns[col] {
			return nil, domain.NewValidationError(fmt.Sprintf("unknown catalog column %q", col))
		}
		index[col] = i
	}
	for _, required := range []string{ColCategory, ColName} {
		if _, ok := index[required]; !ok {
			return nil, domain.NewValidationError(fmt.Sprintf("catalog is missing the %q column", required))
		}
	}

	var rows []catalogRow
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("invalid catalog: %v", err))
		}
		line, _ := cr.FieldPos(0)

		row, err := parseRow(record, index)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("catalog line %d: %v", line, err))
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseRow(record []string, index map[string]int) (catalogRow, error) {
	field := func(col string) string {
		if i, ok := index[col]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	number := func(col string) (*decimal.Decimal, error) {
		v := field(col)
		if v == "" {
			return nil, nil
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", col, v)
		}
		return &d, nil
	}

	input := catalog.RegisterItemInput{
		Category: field(ColCategory),
		Name:     field(ColName),
		Unit:     field(ColUnit),
		Specs: domain.SpecAttributes{
			Color:        field(ColColor),
			CoreType:     field(ColCoreType),
			AdhesiveType: field(ColAdhesiveType),
		},
	}

	var err error
	if input.Specs.Thickness, err = number(ColThickness); err != nil {
		return catalogRow{}, err
	}
	if input.Specs.Width, err = number(ColWidth); err != nil {
		return catalogRow{}, err
	}
	if input.Specs.Length, err = number(ColLength); err != nil {
		return catalogRow{}, err
	}

	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return catalogRow{}, err
	}
	if input.Name == "" {
		return catalogRow{}, errors.New("item name cannot be empty")
	}
	if _, err := domain.NewSpecs(category, input.Specs); err != nil {
		return catalogRow{}, err
	}

	// registered under the enumeration name even when the file uses a legacy label
	input.Category = string(category)
	return catalogRow{category: category, input: input}, nil
}
