package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/armada/internal/domain"
)

// ErrConfigNotFound means the sites file is missing. This is fatal at
// startup: no deployment is attempted without a config.
var ErrConfigNotFound = errors.New("config file not found")

type sitesFile struct {
	Sites []domain.Site `yaml:"sites"`
}

// LoadSites reads and parses the sites file. Site names must be unique;
// method-specific credential requirements are deliberately NOT checked here,
// they are enforced per site when it is validated for deployment.
func LoadSites(path string) ([]domain.Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read sites file: %w", err)
	}

	var cfg sitesFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sites yaml: %w", err)
	}

	if len(cfg.Sites) == 0 {
		return nil, fmt.Errorf("no sites configured in %s", path)
	}

	seen := make(map[string]bool, len(cfg.Sites))
	for _, site := range cfg.Sites {
		if site.Name == "" {
			return nil, fmt.Errorf("site with empty name in %s", path)
		}
		if seen[site.Name] {
			return nil, fmt.Errorf("duplicate site name: %s", site.Name)
		}
		seen[site.Name] = true
	}

	return cfg.Sites, nil
}

// FindSite returns the site with the given name, if configured.
func FindSite(sites []domain.Site, name string) (*domain.Site, bool) {
	for i := range sites {
		if sites[i].Name == name {
			return &sites[i], true
		}
	}
	return nil, false
}
