package scenario

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"
)

// FileRepository loads scenarios from a directory of YAML files, one
// scenario per file. The directory is scanned once; after that the cache is
// read-only and safe for concurrent readers.
type FileRepository struct {
	dir string

	once    sync.Once
	cache   map[string]model.Scenario
	scanErr error
}

func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

func (r *FileRepository) LoadScenario(ctx context.Context, id string) (*model.Scenario, error) {
	if err := r.scan(); err != nil {
		return nil, err
	}
	sc, ok := r.cache[id]
	if !ok {
		return nil, fmt.Errorf("scenario %q: %w", id, ErrScenarioNotFound)
	}
	return &sc, nil
}

func (r *FileRepository) LoadScenariosByDomain(ctx context.Context, domain string) ([]model.Scenario, error) {
	if err := r.scan(); err != nil {
		return nil, err
	}
	var out []model.Scenario
	for _, sc := range r.cache {
		if sc.Domain == domain {
			out = append(out, sc)
		}
	}
	sortByID(out)
	return out, nil
}

func (r *FileRepository) scan() error {
	r.once.Do(func() {
		r.cache = make(map[string]model.Scenario)
		entries, err := os.ReadDir(r.dir)
		if err != nil {
			r.scanErr = fmt.Errorf("reading scenario dir %s: %w", r.dir, err)
			return
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !isScenarioFile(name) {
				continue
			}
			path := filepath.Join(r.dir, name)
			data, err := os.ReadFile(path)
			if err != nil {
				r.scanErr = fmt.Errorf("reading %s: %w", path, err)
				return
			}
			var sc model.Scenario
			if err := yaml.Unmarshal(data, &sc); err != nil {
				r.scanErr = fmt.Errorf("parsing %s: %w", path, err)
				return
			}
			if sc.ID == "" {
				r.scanErr = fmt.Errorf("%s: scenario has no id", path)
				return
			}
			r.cache[sc.ID] = sc
		}
	})
	return r.scanErr
}

func isScenarioFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
