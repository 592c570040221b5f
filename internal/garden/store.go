// Package garden holds the watering log and the per-plant status
// projection, and persists both through a storage backend.
package garden

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/urban-jungle/backend/internal/catalog"
	"github.com/urban-jungle/backend/internal/health"
	"github.com/urban-jungle/backend/internal/interchange"
	"github.com/urban-jungle/backend/internal/models"
	"github.com/urban-jungle/backend/internal/storage"
)

// DefaultDateLayout renders "today" the way an en-US locale date looks.
const DefaultDateLayout = "1/2/2006"

// ErrUnknownPlant is returned when a reading names a plant outside the catalog.
var ErrUnknownPlant = errors.New("unknown plant")

// Store owns the watering log and plant statuses. All mutations are
// serialised and written through to the backend; when a write fails the
// in-memory state is left as it was.
type Store struct {
	mu sync.RWMutex

	backend storage.Backend
	catalog *catalog.Catalog
	logger  *zap.Logger

	now        func() time.Time
	newID      func() string
	dateLayout string

	entries  []models.WateringLogEntry // newest first
	statuses map[string]models.PlantStatus
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for entry dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how entry ids are created.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithDateLayout sets the time layout for entry dates.
func WithDateLayout(layout string) Option {
	return func(s *Store) {
		if layout != "" {
			s.dateLayout = layout
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Watering is the result of recording one reading.
type Watering struct {
	Entry  models.WateringLogEntry `json:"entry"`
	Status models.PlantStatus      `json:"status"`
}

// NewStore creates a store holding default state. Call Load to read what
// the backend has.
func NewStore(backend storage.Backend, cat *catalog.Catalog, opts ...Option) *Store {
	s := &Store{
		backend:    backend,
		catalog:    cat,
		logger:     zap.NewNop(),
		now:        time.Now,
		newID:      uuid.NewString,
		dateLayout: DefaultDateLayout,
		entries:    make([]models.WateringLogEntry, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.statuses = s.defaultStatuses()
	return s
}

// Catalog returns the catalog the store validates plants against.
func (s *Store) Catalog() *catalog.Catalog {
	return s.catalog
}

// Load replaces the in-memory state with what the backend holds. Each
// collection that is missing or unreadable falls back to its default on
// its own. Only backend I/O failures are returned.
func (s *Store) Load(ctx context.Context) error {
	entries, err := s.loadEntries(ctx)
	if err != nil {
		return err
	}
	statuses, err := s.loadStatuses(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries = entries
	s.statuses = statuses
	s.mu.Unlock()

	s.logger.Info("garden loaded",
		zap.Int("entries", len(entries)),
		zap.Int("plants", len(statuses)),
	)
	return nil
}

func (s *Store) loadEntries(ctx context.Context) ([]models.WateringLogEntry, error) {
	data, ok, err := s.backend.Get(ctx, storage.KeyLogs)
	if err != nil {
		return nil, fmt.Errorf("loading watering log: %w", err)
	}
	if !ok {
		return make([]models.WateringLogEntry, 0), nil
	}

	var entries []models.WateringLogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("watering log unreadable, starting empty",
			zap.String("key", storage.KeyLogs),
			zap.Error(err),
		)
		return make([]models.WateringLogEntry, 0), nil
	}
	if entries == nil {
		entries = make([]models.WateringLogEntry, 0)
	}
	return entries, nil
}

func (s *Store) loadStatuses(ctx context.Context) (map[string]models.PlantStatus, error) {
	data, ok, err := s.backend.Get(ctx, storage.KeyStatuses)
	if err != nil {
		return nil, fmt.Errorf("loading plant statuses: %w", err)
	}
	if !ok {
		return s.defaultStatuses(), nil
	}

	var stored map[string]models.PlantStatus
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Warn("plant statuses unreadable, using defaults",
			zap.String("key", storage.KeyStatuses),
			zap.Error(err),
		)
		return s.defaultStatuses(), nil
	}

	// Exactly one status per catalog plant.
	statuses := s.defaultStatuses()
	for id := range statuses {
		if st, ok := stored[id]; ok {
			st.PlantID = id
			statuses[id] = st
		}
	}
	return statuses, nil
}

func (s *Store) defaultStatuses() map[string]models.PlantStatus {
	statuses := make(map[string]models.PlantStatus, s.catalog.Len())
	for _, id := range s.catalog.IDs() {
		statuses[id] = models.DefaultStatus(id)
	}
	return statuses
}

// Save writes the log and then the statuses. The two writes are
// independent; there is no transaction across them.
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persist(ctx, s.entries, s.statuses)
}

func (s *Store) persist(ctx context.Context, entries []models.WateringLogEntry, statuses map[string]models.PlantStatus) error {
	logs, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding watering log: %w", err)
	}
	sts, err := json.Marshal(statuses)
	if err != nil {
		return fmt.Errorf("encoding plant statuses: %w", err)
	}

	if err := s.backend.Put(ctx, storage.KeyLogs, logs); err != nil {
		return fmt.Errorf("saving watering log: %w", err)
	}
	if err := s.backend.Put(ctx, storage.KeyStatuses, sts); err != nil {
		return fmt.Errorf("saving plant statuses: %w", err)
	}
	return nil
}

// RecordWatering prepends a new entry dated today and overwrites the
// plant's status from the reading. An empty plant id is a no-op and
// returns nil with no error.
func (s *Store) RecordWatering(ctx context.Context, plantID string, reading int, notes string) (*Watering, error) {
	if plantID == "" {
		return nil, nil
	}
	if !s.catalog.Has(plantID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlant, plantID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	date := s.now().Format(s.dateLayout)
	entry := models.WateringLogEntry{
		ID:           s.newID(),
		PlantID:      plantID,
		Date:         date,
		MeterReading: reading,
		Notes:        notes,
	}
	status := models.PlantStatus{
		PlantID:     plantID,
		LastWatered: &date,
		Health:      health.Classify(reading, plantID),
	}

	entries := make([]models.WateringLogEntry, 0, len(s.entries)+1)
	entries = append(entries, entry)
	entries = append(entries, s.entries...)

	statuses := cloneStatuses(s.statuses)
	statuses[plantID] = status

	if err := s.persist(ctx, entries, statuses); err != nil {
		return nil, err
	}
	s.entries = entries
	s.statuses = statuses

	s.logger.Info("watering recorded",
		zap.String("plant_id", plantID),
		zap.Int("reading", reading),
		zap.String("health", string(status.Health)),
	)
	return &Watering{Entry: entry, Status: cloneStatus(status)}, nil
}

// ImportEntries prepends a batch, keeping its order, and replaces the
// statuses with the batch's projection. The result is persisted once.
// An empty batch does nothing.
func (s *Store) ImportEntries(ctx context.Context, batch []models.WateringLogEntry) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.importLocked(ctx, batch)
}

func (s *Store) importLocked(ctx context.Context, batch []models.WateringLogEntry) (int, error) {
	entries := make([]models.WateringLogEntry, 0, len(batch)+len(s.entries))
	entries = append(entries, batch...)
	entries = append(entries, s.entries...)

	statuses := interchange.ProjectStatuses(s.statuses, batch)
	for id := range statuses {
		if !s.catalog.Has(id) {
			delete(statuses, id)
		}
	}

	if err := s.persist(ctx, entries, statuses); err != nil {
		return 0, err
	}
	s.entries = entries
	s.statuses = statuses

	s.logger.Info("entries imported", zap.Int("count", len(batch)))
	return len(batch), nil
}

// ImportCSV decodes CSV text and imports the entries it yields. Format
// errors leave the store untouched.
func (s *Store) ImportCSV(ctx context.Context, text string) (*interchange.Result, error) {
	result, err := interchange.Decode(text, s.catalog, s.newID)
	if err != nil {
		return nil, err
	}

	for _, issue := range result.Issues {
		s.logger.Debug("import row skipped",
			zap.Int("line", issue.Line),
			zap.String("reason", issue.Reason),
		)
	}

	if _, err := s.ImportEntries(ctx, result.Entries); err != nil {
		return nil, err
	}
	return result, nil
}

// ExportCSV renders the log, newest first.
func (s *Store) ExportCSV() ([]byte, error) {
	return interchange.Export(s.Snapshot(), s.catalog)
}

// Snapshot returns a copy of the log, newest first.
func (s *Store) Snapshot() []models.WateringLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.WateringLogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of log entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Statuses returns one status per catalog plant in catalog order.
func (s *Store) Statuses() []models.PlantStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.catalog.IDs()
	out := make([]models.PlantStatus, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneStatus(s.statuses[id]))
	}
	return out
}

// StatusMap returns a copy of the statuses keyed by plant id.
func (s *Store) StatusMap() map[string]models.PlantStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneStatuses(s.statuses)
}

// Status returns the status of one plant.
func (s *Store) Status(plantID string) (models.PlantStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.statuses[plantID]
	if !ok {
		return models.PlantStatus{}, false
	}
	return cloneStatus(st), true
}

func cloneStatus(st models.PlantStatus) models.PlantStatus {
	if st.LastWatered != nil {
		d := *st.LastWatered
		st.LastWatered = &d
	}
	return st
}

func cloneStatuses(in map[string]models.PlantStatus) map[string]models.PlantStatus {
	out := make(map[string]models.PlantStatus, len(in))
	for id, st := range in {
		out[id] = cloneStatus(st)
	}
	return out
}
