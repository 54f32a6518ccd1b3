package infrastructure

import (
	"os"
	"runtime"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"imfit-model/internal/domain"
)

type YAMLSettingsReader struct {
	logger *zap.Logger
}

func NewYAMLSettingsReader(logger *zap.Logger) *YAMLSettingsReader {
	return &YAMLSettingsReader{logger: logger}
}

func (r *YAMLSettingsReader) ReadSettings(path string) (*domain.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var settings domain.Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, err
	}

	setDefaults(&settings)
	return &settings, nil
}

// DefaultSettings returns settings usable without a YAML file.
func DefaultSettings() *domain.Settings {
	settings := &domain.Settings{}
	setDefaults(settings)
	return settings
}

func setDefaults(settings *domain.Settings) {
	if settings.Workers == 0 {
		settings.Workers = max(1, runtime.NumCPU()-1)
	}
	if settings.Trials == 0 {
		settings.Trials = 16
	}
	if settings.Jitter == 0 {
		settings.Jitter = 0.1
	}
	if settings.Tolerance == 0 {
		settings.Tolerance = 1e-6
	}
	if settings.Method == "" {
		settings.Method = "nelder-mead"
	}
	if settings.LogLevel == "" {
		settings.LogLevel = "info"
	}
}
