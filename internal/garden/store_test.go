package garden

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urban-jungle/backend/internal/catalog"
	"github.com/urban-jungle/backend/internal/interchange"
	"github.com/urban-jungle/backend/internal/models"
	"github.com/urban-jungle/backend/internal/storage"
	"github.com/urban-jungle/backend/internal/testutil"
)

var fixedNow = time.Date(2024, 3, 9, 10, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T, backend storage.Backend) *Store {
	t.Helper()
	n := 0
	return NewStore(backend, catalog.Default(),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("entry-%d", n)
		}),
	)
}

func TestLoad_Defaults(t *testing.T) {
	mem := testutil.NewMemoryStore()
	s := newTestStore(t, mem)

	require.NoError(t, s.Load(context.Background()))

	assert.Empty(t, s.Snapshot())
	statuses := s.Statuses()
	require.Len(t, statuses, 3)
	assert.Equal(t, []string{"dracaena", "dieffenbachia", "fiddle-leaf"},
		[]string{statuses[0].PlantID, statuses[1].PlantID, statuses[2].PlantID})
	for _, st := range statuses {
		assert.Equal(t, models.HealthHealthy, st.Health)
		assert.Nil(t, st.LastWatered)
	}
	assert.Equal(t, 0, mem.Puts(), "load never writes")
}

func TestLoad_CorruptBlobsFallBackIndependently(t *testing.T) {
	mem := testutil.NewMemoryStore()
	mem.Set(storage.KeyLogs, []byte("{not json"))
	mem.Set(storage.KeyStatuses, []byte(`{"fiddle-leaf":{"plantId":"fiddle-leaf","lastWatered":"3/1/2024","health":"Critical"}}`))

	s := newTestStore(t, mem)
	require.NoError(t, s.Load(context.Background()))

	assert.Empty(t, s.Snapshot())

	fig, ok := s.Status("fiddle-leaf")
	require.True(t, ok)
	assert.Equal(t, models.HealthCritical, fig.Health)
	assert.Equal(t, "3/1/2024", *fig.LastWatered)

	// missing plants filled in
	dr, ok := s.Status("dracaena")
	require.True(t, ok)
	assert.Equal(t, models.DefaultStatus("dracaena"), dr)
}

func TestLoad_CorruptStatusesOnly(t *testing.T) {
	mem := testutil.NewMemoryStore()
	mem.Set(storage.KeyLogs, []byte(`[{"id":"a","plantId":"dracaena","date":"3/1/2024","meterReading":1,"notes":""}]`))
	mem.Set(storage.KeyStatuses, []byte(`[1,2,3]`))

	s := newTestStore(t, mem)
	require.NoError(t, s.Load(context.Background()))

	require.Len(t, s.Snapshot(), 1)
	assert.Len(t, s.Statuses(), 3)
}

func TestLoad_DropsUnknownPlants(t *testing.T) {
	mem := testutil.NewMemoryStore()
	mem.Set(storage.KeyStatuses, []byte(`{"ghost":{"plantId":"ghost","lastWatered":null,"health":"Critical"}}`))

	s := newTestStore(t, mem)
	require.NoError(t, s.Load(context.Background()))

	_, ok := s.Status("ghost")
	assert.False(t, ok)
	assert.Len(t, s.StatusMap(), 3)
}

func TestLoad_BackendError(t *testing.T) {
	mem := testutil.NewMemoryStore()
	mem.FailGet(storage.KeyLogs, true)

	s := newTestStore(t, mem)
	err := s.Load(context.Background())
	assert.ErrorIs(t, err, testutil.ErrInjected)
}

func TestLoad_Idempotent(t *testing.T) {
	mem := testutil.NewMemoryStore()
	s := newTestStore(t, mem)
	ctx := context.Background()

	_, err := s.RecordWatering(ctx, "fiddle-leaf", 5, "ok")
	require.NoError(t, err)

	require.NoError(t, s.Load(ctx))
	first := s.Snapshot()
	firstStatuses := s.Statuses()

	require.NoError(t, s.Load(ctx))
	assert.Equal(t, first, s.Snapshot())
	assert.Equal(t, firstStatuses, s.Statuses())
}

func TestRecordWatering(t *testing.T) {
	mem := testutil.NewMemoryStore()
	s := newTestStore(t, mem)
	ctx := context.Background()

	w, err := s.RecordWatering(ctx, "fiddle-leaf", 9, "soggy")
	require.NoError(t, err)
	require.NotNil(t, w)

	assert.Equal(t, "entry-1", w.Entry.ID)
	assert.Equal(t, "3/9/2024", w.Entry.Date)
	assert.Equal(t, 9, w.Entry.MeterReading)
	assert.Equal(t, "soggy", w.Entry.Notes)
	assert.Equal(t, models.HealthCritical, w.Status.Health)
	assert.Equal(t, "3/9/2024", *w.Status.LastWatered)

	_, err = s.RecordWatering(ctx, "dieffenbachia", 2, "")
	require.NoError(t, err)

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "dieffenbachia", snap[0].PlantID, "newest first")
	assert.Equal(t, "fiddle-leaf", snap[1].PlantID)

	st, _ := s.Status("dieffenbachia")
	assert.Equal(t, models.HealthNeedsAttention, st.Health)

	// two writes per mutation
	assert.Equal(t, 4, mem.Puts())
}

func TestRecordWatering_DroughtTolerantPlant(t *testing.T) {
	s := newTestStore(t, testutil.NewMemoryStore())

	w, err := s.RecordWatering(context.Background(), "dracaena", 1, "")
	require.NoError(t, err)
	assert.Equal(t, models.HealthHealthy, w.Status.Health)
}

func TestRecordWatering_EmptyPlantIsNoop(t *testing.T) {
	mem := testutil.NewMemoryStore()
	s := newTestStore(t, mem)

	w, err := s.RecordWatering(context.Background(), "", 5, "ignored")
	assert.NoError(t, err)
	assert.Nil(t, w)
	assert.Empty(t, s.Snapshot())
	assert.Equal(t, 0, mem.Puts())
}

func TestRecordWatering_UnknownPlant(t *testing.T) {
	mem := testutil.NewMemoryStore()
	s := newTestStore(t, mem)

	_, err := s.RecordWatering(context.Background(), "cactus", 5, "")
	assert.ErrorIs(t, err, ErrUnknownPlant)
	assert.Empty(t, s.Snapshot())
	assert.Equal(t, 0, mem.Puts())
}

func TestRecordWatering_SaveFailureKeepsState(t *testing.T) {
	mem := testutil.NewMemoryStore()
	s := newTestStore(t, mem)
	mem.FailPut(storage.KeyLogs, true)

	_, err := s.RecordWatering(context.Background(), "fiddle-leaf", 9, "")
	assert.ErrorIs(t, err, testutil.ErrInjected)

	assert.Empty(t, s.Snapshot())
	st, _ := s.Status("fiddle-leaf")
	assert.Equal(t, models.HealthHealthy, st.Health)
}

func TestRecordWatering_Persists(t *testing.T) {
	mem := testutil.NewMemoryStore()
	ctx := context.Background()

	s := newTestStore(t, mem)
	_, err := s.RecordWatering(ctx, "fiddle-leaf", 4, "first")
	require.NoError(t, err)

	raw, ok := mem.Raw(storage.KeyLogs)
	require.True(t, ok)
	var stored []models.WateringLogEntry
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "first", stored[0].Notes)

	reopened := newTestStore(t, mem)
	require.NoError(t, reopened.Load(ctx))
	assert.Equal(t, s.Snapshot(), reopened.Snapshot())
	assert.Equal(t, s.Statuses(), reopened.Statuses())
}

func TestRecordWatering_CustomDateLayout(t *testing.T) {
	s := NewStore(testutil.NewMemoryStore(), catalog.Default(),
		WithClock(func() time.Time { return fixedNow }),
		WithDateLayout("2006-01-02"),
	)

	w, err := s.RecordWatering(context.Background(), "fiddle-leaf", 5, "")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", w.Entry.Date)
	assert.NotEmpty(t, w.Entry.ID)
}

func TestImportEntries(t *testing.T) {
	mem := testutil.NewMemoryStore()
	s := newTestStore(t, mem)
	ctx := context.Background()

	_, err := s.RecordWatering(ctx, "dracaena", 3, "existing")
	require.NoError(t, err)
	putsBefore := mem.Puts()

	batch := []models.WateringLogEntry{
		{ID: "b1", PlantID: "fiddle-leaf", Date: "2024-02-01", MeterReading: 9},
		{ID: "b2", PlantID: "dracaena", Date: "2024-01-01", MeterReading: 1},
	}
	n, err := s.ImportEntries(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, []string{"b1", "b2", "entry-1"}, []string{snap[0].ID, snap[1].ID, snap[2].ID})

	fig, _ := s.Status("fiddle-leaf")
	assert.Equal(t, models.HealthCritical, fig.Health)

	// 2024-01-01 is older than today's 3/9/2024 entry
	dr, _ := s.Status("dracaena")
	assert.Equal(t, "3/9/2024", *dr.LastWatered)

	assert.Equal(t, putsBefore+2, mem.Puts(), "one save per batch")
}

func TestImportEntries_Empty(t *testing.T) {
	mem := testutil.NewMemoryStore()
	s := newTestStore(t, mem)

	n, err := s.ImportEntries(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 0, mem.Puts())
}

func TestImportCSV(t *testing.T) {
	mem := testutil.NewMemoryStore()
	s := newTestStore(t, mem)

	result, err := s.ImportCSV(context.Background(), "Reading,Date,Plant\n5,2024-01-01,Fiddle Leaf Fig\n2,2024-01-02,zz-unknown")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported())
	assert.Equal(t, 1, result.Skipped())

	snap := s.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "fiddle-leaf", snap[0].PlantID)
	assert.Equal(t, 5, snap[0].MeterReading)
	assert.Equal(t, "", snap[0].Notes)
}

func TestImportCSV_FormatErrorLeavesStore(t *testing.T) {
	mem := testutil.NewMemoryStore()
	s := newTestStore(t, mem)

	_, err := s.ImportCSV(context.Background(), "Date,Plant,Reading,Notes\n")
	assert.ErrorIs(t, err, interchange.ErrTooFewRows)

	_, err = s.ImportCSV(context.Background(), "Date,Notes\n1/1/2024,x")
	assert.ErrorIs(t, err, interchange.ErrMissingColumns)

	assert.Empty(t, s.Snapshot())
	assert.Equal(t, 0, mem.Puts())
}

func TestExportCSV(t *testing.T) {
	s := newTestStore(t, testutil.NewMemoryStore())

	_, err := s.ExportCSV()
	assert.ErrorIs(t, err, interchange.ErrNothingToExport)

	_, err = s.RecordWatering(context.Background(), "fiddle-leaf", 6, `a "quote"`)
	require.NoError(t, err)

	out, err := s.ExportCSV()
	require.NoError(t, err)
	assert.Equal(t, "Date,Plant,Reading,Notes\n3/9/2024,\"Fiddle Leaf Fig\",6,\"a \"\"quote\"\"\"", string(out))
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newTestStore(t, testutil.NewMemoryStore())
	_, err := s.RecordWatering(context.Background(), "fiddle-leaf", 6, "")
	require.NoError(t, err)

	snap := s.Snapshot()
	snap[0].Notes = "changed"
	assert.Equal(t, "", s.Snapshot()[0].Notes)

	st, _ := s.Status("fiddle-leaf")
	*st.LastWatered = "never"
	again, _ := s.Status("fiddle-leaf")
	assert.Equal(t, "3/9/2024", *again.LastWatered)
}
