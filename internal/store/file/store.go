package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/gemshub/internal/domain"
	"github.com/MrSnakeDoc/gemshub/internal/logger"
)

// ErrNotFound is returned when an operation targets an unknown gem id.
var ErrNotFound = errors.New("gem not found")

// Notifier is told about every collection that was durably written.
// Implementations must not block; the mirror syncer queues a push.
type Notifier interface {
	Notify(gems []domain.Gem)
}

// Store is the single owner of the gems file.
//
// Reads always load the file fresh, writes always replace the whole file.
// Mutations are serialized by mu, which removes the lost-update race between
// requests of the same process. Two processes sharing one file still race:
// the last full-file write wins.
type Store struct {
	path     string
	logger   logger.Logger
	notifier Notifier
	now      func() time.Time
	newID    func() string

	mu sync.Mutex
}

// Option customizes a Store.
type Option func(*Store)

// WithNotifier registers the component told about successful writes.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides uuid generation, for tests.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore creates a store backed by the JSON file at path.
// The file does not need to exist yet.
func NewStore(path string, log logger.Logger, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// All returns every gem as currently persisted. It never fails: a missing
// or unreadable file is served as an empty collection.
func (s *Store) All() []domain.Gem {
	return s.load()
}

// Published returns the gems visible on the public catalog.
func (s *Store) Published() []domain.Gem {
	return domain.PublishedOnly(s.load())
}

// Get returns the gem with the given id, or ErrNotFound.
func (s *Store) Get(id string) (*domain.Gem, error) {
	gems := s.load()
	i := indexOf(gems, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	g := gems[i]
	return &g, nil
}

// Create stores a new gem built from pre-validated fields.
func (s *Store) Create(fields domain.GemFields) (*domain.Gem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gems := s.load()
	now := s.timestamp()
	g := domain.Gem{
		ID:              s.uniqueID(gems),
		Title:           fields.Title,
		Description:     fields.Description,
		URL:             fields.URL,
		PreviewImageURL: fields.PreviewImageURL,
		Icon:            fields.Icon,
		Published:       fields.Published,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	gems = append(gems, g)

	if err := s.save(gems); err != nil {
		return nil, fmt.Errorf("failed to create gem: %w", err)
	}

	s.logger.Info("gem created",
		logger.String("id", g.ID),
		logger.String("title", g.Title))
	return &g, nil
}

// Update merges patch into the gem with the given id.
// Nothing is written when the id is unknown.
func (s *Store) Update(id string, patch domain.Patch) (*domain.Gem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gems := s.load()
	i := indexOf(gems, id)
	if i < 0 {
		return nil, ErrNotFound
	}

	patch.Apply(&gems[i])
	s.touch(&gems[i])

	if err := s.save(gems); err != nil {
		return nil, fmt.Errorf("failed to update gem %s: %w", id, err)
	}

	s.logger.Info("gem updated", logger.String("id", id))
	g := gems[i]
	return &g, nil
}

// Remove deletes the gem with the given id. It reports false, without
// writing, when there was nothing to remove.
func (s *Store) Remove(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gems := s.load()
	i := indexOf(gems, id)
	if i < 0 {
		return false, nil
	}

	gems = slices.Delete(gems, i, i+1)
	if err := s.save(gems); err != nil {
		return false, fmt.Errorf("failed to remove gem %s: %w", id, err)
	}

	s.logger.Info("gem removed", logger.String("id", id))
	return true, nil
}

// TogglePublished flips the published flag of the gem with the given id.
func (s *Store) TogglePublished(id string) (*domain.Gem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gems := s.load()
	i := indexOf(gems, id)
	if i < 0 {
		return nil, ErrNotFound
	}

	gems[i].Published = !gems[i].Published
	s.touch(&gems[i])

	if err := s.save(gems); err != nil {
		return nil, fmt.Errorf("failed to toggle gem %s: %w", id, err)
	}

	s.logger.Info("gem visibility toggled",
		logger.String("id", id),
		logger.Bool("published", gems[i].Published))
	g := gems[i]
	return &g, nil
}

// Snapshot returns the current collection in canonical JSON form.
func (s *Store) Snapshot() ([]byte, error) {
	return Encode(s.load())
}

func (s *Store) load() []domain.Gem {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("failed to read gems file, serving empty collection",
				logger.String("path", s.path),
				logger.Error(err))
		}
		return []domain.Gem{}
	}

	gems, err := Decode(data)
	if err != nil {
		s.logger.Warn("gems file is corrupt, serving empty collection",
			logger.String("path", s.path),
			logger.Error(err))
		return []domain.Gem{}
	}
	return gems
}

// save replaces the file through a temp file + rename so readers never see
// a half-written collection, then notifies the mirror.
func (s *Store) save(gems []domain.Gem) error {
	data, err := Encode(gems)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write gems: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync gems file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close gems file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to chmod gems file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace gems file: %w", err)
	}

	if s.notifier != nil {
		s.notifier.Notify(slices.Clone(gems))
	}
	return nil
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// touch refreshes UpdatedAt, never letting it fall behind CreatedAt.
func (s *Store) touch(g *domain.Gem) {
	now := s.timestamp()
	if now.Before(g.CreatedAt) {
		now = g.CreatedAt
	}
	g.UpdatedAt = now
}

func (s *Store) uniqueID(gems []domain.Gem) string {
	for {
		id := s.newID()
		if indexOf(gems, id) < 0 {
			return id
		}
		s.logger.Warn("generated gem id already in use, retrying", logger.String("id", id))
	}
}

func indexOf(gems []domain.Gem, id string) int {
	return slices.IndexFunc(gems, func(g domain.Gem) bool { return g.ID == id })
}
