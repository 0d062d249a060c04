package seed

import (
	"fmt"

	"github.com/MrSnakeDoc/gemshub/internal/domain"
	"github.com/MrSnakeDoc/gemshub/internal/logger"
)

// Store is the part of the record store the importer needs.
type Store interface {
	All() []domain.Gem
	Create(fields domain.GemFields) (*domain.Gem, error)
}

// Importer fills an empty store from a seed file.
type Importer struct {
	loader *Loader
	store  Store
	logger logger.Logger
}

// NewImporter creates a new seed importer
func NewImporter(filePath string, store Store, log logger.Logger) *Importer {
	return &Importer{
		loader: NewLoader(filePath),
		store:  store,
		logger: log,
	}
}

// Import creates every valid seed entry when the store is empty and
// returns how many gems were created. A non-empty store is left alone so
// admin edits are never overwritten by a restart.
func (im *Importer) Import() (int, error) {
	if existing := len(im.store.All()); existing > 0 {
		im.logger.Info("store already holds gems, skipping seed import",
			logger.Int("count", existing))
		return 0, nil
	}

	entries, err := im.loader.Load()
	if err != nil {
		return 0, err
	}

	created := 0
	for i, entry := range entries {
		if err := domain.ValidateFields(entry); err != nil {
			im.logger.Warn("skipping invalid seed entry",
				logger.Int("index", i),
				logger.String("title", entry.Title),
				logger.Error(err))
			continue
		}
		if _, err := im.store.Create(entry); err != nil {
			return created, fmt.Errorf("failed to import seed entry %d: %w", i, err)
		}
		created++
	}

	im.logger.Info("seed import completed",
		logger.Int("created", created),
		logger.Int("skipped", len(entries)-created))
	return created, nil
}
