package registry

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"
	"go.uber.org/zap"

	"github.com/duckos/duckos/backend/internal/infrastructure/logging"
	"github.com/duckos/duckos/backend/internal/shared/types"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// Seeder loads the builtin app catalog into a Manager
type Seeder struct {
	manager *Manager
	log     *logging.Logger
}

// NewSeeder creates a catalog seeder
func NewSeeder(manager *Manager, log *logging.Logger) *Seeder {
	if log == nil {
		log = logging.NewDefault()
	}
	return &Seeder{manager: manager, log: log.Component("registry")}
}

type catalogFile struct {
	Apps []catalogEntry `yaml:"apps"`
}

type catalogEntry struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Icon        string      `yaml:"icon"`
	DefaultSize catalogSize `yaml:"default_size"`
	Content     string      `yaml:"content"`
}

type catalogSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SeedBuiltins parses the embedded catalog and registers every entry.
// Returns the number of apps added.
func (s *Seeder) SeedBuiltins() (int, error) {
	return s.seed(builtinCatalog)
}

// SeedFrom registers apps from an external catalog document, for
// installations that ship extra apps.
func (s *Seeder) SeedFrom(doc []byte) (int, error) {
	return s.seed(doc)
}

func (s *Seeder) seed(doc []byte) (int, error) {
	var catalog catalogFile
	if err := yaml.Unmarshal(doc, &catalog); err != nil {
		return 0, fmt.Errorf("failed to parse app catalog: %w", err)
	}

	added := 0
	for _, entry := range catalog.Apps {
		if entry.ID == "" || entry.Name == "" {
			s.log.Warn("skipping catalog entry without id or name", zap.String("id", entry.ID))
			continue
		}
		ok := s.manager.Register(types.AppDefinition{
			ID:      entry.ID,
			Name:    entry.Name,
			Icon:    entry.Icon,
			Content: entry.Content,
			DefaultSize: types.WindowSize{
				Width:  entry.DefaultSize.Width,
				Height: entry.DefaultSize.Height,
			},
		})
		if ok {
			added++
		}
	}

	s.log.Info("seeded app catalog", zap.Int("apps", added))
	return added, nil
}
