//go:build integration

package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/stockcal-backend/internal/domain"
)

// Requires a reachable PostgreSQL. Run with:
//
//	DB_CONN_STR="host=localhost port=5432 user=postgres password=postgres dbname=stockcal_test sslmode=disable" go test -tags integration ./internal/adapter/repository/postgres/
func openTestDB(t *testing.T) *DB {
	t.Helper()
	connStr := os.Getenv("DB_CONN_STR")
	if connStr == "" {
		connStr = "host=localhost port=5432 user=postgres password=postgres dbname=stockcal_test sslmode=disable"
	}

	db, err := NewDB(connStr)
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func createTestItem(t *testing.T, db *DB, category domain.Category, specs domain.Specs) *domain.Item {
	t.Helper()
	item := &domain.Item{
		ID:           uuid.New(),
		Category:     category,
		Name:         "it-" + uuid.NewString()[:8],
		Specs:        specs,
		CurrentStock: decimal.Zero,
		Unit:         domain.DefaultUnit,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, NewItemRepository(db).Create(context.Background(), item))
	return item
}

func TestItemRepository_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	width := decimal.NewFromInt(1040)
	item := createTestItem(t, db, domain.CategoryRawMaterialFilm, domain.FilmSpecs{Color: "청색", Width: &width})

	got, err := NewItemRepository(db).GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Name, got.Name)
	assert.True(t, got.CurrentStock.IsZero())

	film, ok := got.Specs.(domain.FilmSpecs)
	require.True(t, ok)
	assert.Equal(t, "청색", film.Color)
	assert.True(t, film.Width.Equal(width))

	byName, err := NewItemRepository(db).FindByName(ctx, domain.CategoryRawMaterialFilm, item.Name)
	require.NoError(t, err)
	assert.Equal(t, item.ID, byName.ID)

	_, err = NewItemRepository(db).GetByID(ctx, uuid.New())
	assert.True(t, domain.IsNotFound(err))
}

func TestLedgerRepository_ConcurrentApply(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	item := createTestItem(t, db, domain.CategoryFinishedProduct, nil)
	ledger := NewLedgerRepository(db)

	date, _ := domain.ParseBusinessDate("2024-12-03")
	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Apply(ctx, domain.StockChange{
				EntryID: uuid.New(),
				ItemID:  item.ID,
				Type:    domain.TransactionTypeIn,
				Change:  decimal.NewFromInt(5),
				Date:    date,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	final, err := NewItemRepository(db).GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, final.CurrentStock.Equal(decimal.NewFromInt(5*workers)))
	assert.Equal(t, int64(workers), final.Version)

	entries, err := NewHistoryRepository(db).List(ctx, domain.HistoryFilter{ItemID: &item.ID})
	require.NoError(t, err)
	require.Len(t, entries, workers)

	// listing order is apply order: checkpoints form the running sum
	running := decimal.Zero
	for i, e := range entries {
		assert.Equal(t, int64(i+1), e.Sequence)
		running = running.Add(e.ChangeAmount)
		assert.True(t, e.FinalStock.Equal(running), "entry %d: final %s, running %s", i, e.FinalStock, running)
	}
	assert.True(t, running.Equal(final.CurrentStock))
}

func TestLedgerRepository_UnknownItem(t *testing.T) {
	db := openTestDB(t)

	_, err := NewLedgerRepository(db).Apply(context.Background(), domain.StockChange{
		EntryID: uuid.New(),
		ItemID:  uuid.New(),
		Type:    domain.TransactionTypeIn,
		Change:  decimal.NewFromInt(1),
		Date:    time.Now().UTC(),
	})
	assert.True(t, domain.IsNotFound(err))
}

func TestEventRepository_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	date, _ := domain.ParseBusinessDate("2024-12-24")
	now := time.Now().UTC()
	event := &domain.Event{ID: uuid.New(), Title: "Stocktake", Date: date, Description: domain.DefaultEventDescription, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, NewEventRepository(db).Create(ctx, event))

	events, err := NewEventRepository(db).List(ctx)
	require.NoError(t, err)

	var found bool
	for _, e := range events {
		if e.ID == event.ID {
			found = true
			assert.Equal(t, "2024-12-24", domain.FormatBusinessDate(e.Date))
		}
	}
	assert.True(t, found)
}
