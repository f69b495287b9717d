package services

import "github.com/km-arc/go-modular/framework/config"

// ConfigService binds configuration sections into caller-supplied structs.
type ConfigService struct {
	repo *config.Repository
}

// NewConfigService wraps the configuration repository.
func NewConfigService(repo *config.Repository) *ConfigService {
	return &ConfigService{repo: repo}
}

func (s *ConfigService) ModuleName() string { return "config" }

// GetConfig decodes section into out. A missing section leaves out at its
// zero value.
func (s *ConfigService) GetConfig(section string, out any) error {
	return s.repo.UnmarshalKey(section, out)
}
