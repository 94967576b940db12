package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/stockcal-backend/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "stockcal.db"))
	if err != nil {
		// go-sqlite3 needs cgo
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func createItem(t *testing.T, db *DB, category domain.Category, name string, specs domain.Specs) *domain.Item {
	t.Helper()
	item := &domain.Item{
		ID:        uuid.New(),
		Category:  category,
		Name:      name,
		Specs:     specs,
		Unit:      domain.DefaultUnit,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, NewItemRepository(db).Create(context.Background(), item))
	return item
}

func stockChange(itemID uuid.UUID, txType domain.TransactionType, amount string, date string) domain.StockChange {
	d, _ := domain.ParseBusinessDate(date)
	return domain.StockChange{
		EntryID: uuid.New(),
		ItemID:  itemID,
		Type:    txType,
		Change:  txType.SignedChange(decimal.RequireFromString(amount)),
		Date:    d,
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, db.Migrate(context.Background()))
}

func TestItemRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewItemRepository(db)

	thickness := decimal.RequireFromString("38.5")
	film := createItem(t, db, domain.CategoryRawMaterialFilm, "Blue Film", domain.FilmSpecs{Color: "blue", Thickness: &thickness})
	createItem(t, db, domain.CategoryCoreTube, "3 inch core", domain.CoreTubeSpecs{CoreType: "3inch"})

	got, err := repo.GetByID(ctx, film.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blue Film", got.Name)
	assert.Equal(t, domain.CategoryRawMaterialFilm, got.Category)
	assert.True(t, got.CurrentStock.IsZero())
	specs, ok := got.Specs.(domain.FilmSpecs)
	require.True(t, ok)
	assert.True(t, specs.Thickness.Equal(thickness))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, film.ID, all[0].ID)

	cores, err := repo.List(ctx, domain.CategoryCoreTube)
	require.NoError(t, err)
	require.Len(t, cores, 1)
	assert.Equal(t, "3 inch core", cores[0].Name)

	found, err := repo.FindByName(ctx, domain.CategoryRawMaterialFilm, "Blue Film")
	require.NoError(t, err)
	assert.Equal(t, film.ID, found.ID)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.True(t, domain.IsNotFound(err))

	assert.True(t, domain.IsStorage(repo.Create(ctx, film)))
}

func TestLedgerRepository_Apply(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	item := createItem(t, db, domain.CategoryFinishedProduct, "Blue Film 38mic", nil)
	ledger := NewLedgerRepository(db)

	entry, err := ledger.Apply(ctx, stockChange(item.ID, domain.TransactionTypeIn, "100", "2024-12-03"))
	require.NoError(t, err)
	assert.Equal(t, "100", entry.FinalStock.String())
	assert.Equal(t, int64(1), entry.Sequence)

	entry, err = ledger.Apply(ctx, stockChange(item.ID, domain.TransactionTypeOut, "30.25", "2024-12-04"))
	require.NoError(t, err)
	assert.Equal(t, "69.75", entry.FinalStock.String())
	assert.Equal(t, "-30.25", entry.ChangeAmount.String())

	updated, err := NewItemRepository(db).GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "69.75", updated.CurrentStock.String())
	assert.Equal(t, int64(2), updated.Version)

	entries, err := NewHistoryRepository(db).List(ctx, domain.HistoryFilter{ItemID: &item.ID})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2024-12-03", domain.FormatBusinessDate(entries[0].Date))
	assert.Equal(t, "Blue Film 38mic", entries[1].ItemName)

	_, err = ledger.Apply(ctx, stockChange(uuid.New(), domain.TransactionTypeIn, "1", "2024-12-03"))
	assert.True(t, domain.IsNotFound(err))
}

func TestLedgerRepository_ConcurrentApply(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	item := createItem(t, db, domain.CategoryAdhesive, "Acrylic", nil)
	ledger := NewLedgerRepository(db)

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			txType, amount := domain.TransactionTypeIn, "2.5"
			if i%4 == 3 {
				txType, amount = domain.TransactionTypeOut, "1.25"
			}
			_, err := ledger.Apply(ctx, stockChange(item.ID, txType, amount, "2024-12-03"))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// 12 receipts of 2.5 and 4 issues of 1.25
	final, err := NewItemRepository(db).GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "25", final.CurrentStock.String())
	assert.Equal(t, int64(workers), final.Version)

	entries, err := NewHistoryRepository(db).List(ctx, domain.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, workers)

	// listing order is apply order: checkpoints form the running sum
	running := decimal.Zero
	for i, e := range entries {
		assert.Equal(t, int64(i+1), e.Sequence)
		running = running.Add(e.ChangeAmount)
		assert.True(t, e.FinalStock.Equal(running), "entry %d: final %s, running %s", i, e.FinalStock, running)
	}
}

func TestLedgerRepository_CreatedAtNeverGoesBack(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	item := createItem(t, db, domain.CategoryAdhesive, "Acrylic", nil)

	base := time.Date(2024, 12, 3, 10, 0, 0, 0, time.UTC)
	clock := base
	ledger := &ledgerRepository{db: db, now: func() time.Time { return clock }}

	first, err := ledger.Apply(ctx, stockChange(item.ID, domain.TransactionTypeIn, "5", "2024-12-03"))
	require.NoError(t, err)
	assert.Equal(t, base, first.CreatedAt)

	clock = base.Add(-time.Hour)
	second, err := ledger.Apply(ctx, stockChange(item.ID, domain.TransactionTypeOut, "2", "2024-12-03"))
	require.NoError(t, err)
	assert.Equal(t, base, second.CreatedAt)

	entries, err := NewHistoryRepository(db).List(ctx, domain.HistoryFilter{ItemID: &item.ID})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].Sequence)
	assert.Equal(t, "3", entries[1].FinalStock.String())
}

func TestHistoryRepository_DateRange(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	item := createItem(t, db, domain.CategoryCoreTube, "6 inch core", nil)
	ledger := NewLedgerRepository(db)

	for _, date := range []string{"2024-11-30", "2024-12-01", "2024-12-15", "2024-12-31", "2025-01-01"} {
		_, err := ledger.Apply(ctx, stockChange(item.ID, domain.TransactionTypeIn, "1", date))
		require.NoError(t, err)
	}

	from, _ := domain.ParseBusinessDate("2024-12-01")
	to, _ := domain.ParseBusinessDate("2024-12-31")
	entries, err := NewHistoryRepository(db).List(ctx, domain.HistoryFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2024-12-01", domain.FormatBusinessDate(entries[0].Date))
	assert.Equal(t, "2024-12-31", domain.FormatBusinessDate(entries[2].Date))
}

func TestEventRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewEventRepository(db)

	now := time.Now().UTC()
	date, _ := domain.ParseBusinessDate("2024-12-24")
	require.NoError(t, repo.Create(ctx, &domain.Event{
		ID: uuid.New(), Title: "Stocktake", Date: date,
		Description: domain.DefaultEventDescription, CreatedAt: now, UpdatedAt: now,
	}))

	events, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Stocktake", events[0].Title)
	assert.Equal(t, domain.DefaultEventDescription, events[0].Description)
	assert.Equal(t, "2024-12-24", domain.FormatBusinessDate(events[0].Date))
}
