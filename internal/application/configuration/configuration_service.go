package configuration

import (
	"context"
	"errors"
	"strings"

	"github.com/quotebook/backend/internal/domain/configuration"
	"github.com/quotebook/backend/internal/domain/pricing"
	"github.com/quotebook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ConfigurationService manages the admin-editable settings and assembles the
// rate card and quote policy from them.
type ConfigurationService struct {
	repo   configuration.SettingRepository
	logger *zap.Logger
}

// NewConfigurationService creates a new ConfigurationService
func NewConfigurationService(repo configuration.SettingRepository, logger *zap.Logger) *ConfigurationService {
	return &ConfigurationService{repo: repo, logger: logger}
}

// List returns stored settings. Built-in defaults without a stored row are
// appended on the first page when no search is given.
func (s *ConfigurationService) List(ctx context.Context, filter SettingListFilter) ([]SettingResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 100
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "key",
		OrderDir: "asc",
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Prefix != "" {
		domainFilter.Filters["prefix"] = filter.Prefix
	}

	settings, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SettingResponse, 0, len(settings))
	for i := range settings {
		responses = append(responses, ToSettingResponse(&settings[i]))
	}

	if filter.Page == 1 && filter.Search == "" {
		all, err := s.repo.FindByPrefix(ctx, filter.Prefix)
		if err != nil {
			return nil, 0, err
		}
		stored := make(map[string]bool, len(all))
		for _, st := range all {
			stored[st.Key] = true
		}
		for _, d := range configuration.Defaults {
			if stored[d.Key] || !strings.HasPrefix(d.Key, filter.Prefix) {
				continue
			}
			responses = append(responses, defaultResponse(d))
			total++
		}
	}

	return responses, total, nil
}

// Get returns the stored setting or its built-in default
func (s *ConfigurationService) Get(ctx context.Context, key string) (*SettingResponse, error) {
	if err := configuration.ValidateKey(key); err != nil {
		return nil, err
	}

	setting, err := s.repo.FindByKey(ctx, key)
	if err == nil {
		resp := ToSettingResponse(setting)
		return &resp, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if d, ok := findDefault(key); ok {
		resp := defaultResponse(d)
		return &resp, nil
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Setting "+key+" not found")
}

// Upsert stores a setting. Keys with a built-in default keep the default's
// value type.
func (s *ConfigurationService) Upsert(ctx context.Context, key string, req UpsertSettingRequest) (*SettingResponse, error) {
	key = strings.TrimSpace(key)
	valueType := configuration.ValueType(req.ValueType)
	description := req.Description

	if d, ok := findDefault(key); ok {
		if valueType != "" && valueType != d.ValueType {
			return nil, shared.NewDomainError("INVALID_VALUE_TYPE", "Setting "+key+" must be of type "+string(d.ValueType))
		}
		valueType = d.ValueType
		if description == "" {
			description = d.Description
		}
	}
	if valueType == "" {
		valueType = configuration.ValueTypeString
	}

	setting, err := s.repo.FindByKey(ctx, key)
	switch {
	case err == nil:
		if err := setting.Update(req.Value, valueType, description); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		setting, err = configuration.NewSetting(key, req.Value, valueType, description)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.repo.Save(ctx, setting); err != nil {
		return nil, err
	}

	s.logger.Info("Setting updated", zap.String("key", key), zap.String("value_type", string(valueType)))

	resp := ToSettingResponse(setting)
	return &resp, nil
}

// Delete removes a stored setting. Built-in keys fall back to their default.
func (s *ConfigurationService) Delete(ctx context.Context, key string) error {
	if err := configuration.ValidateKey(key); err != nil {
		return err
	}
	if err := s.repo.DeleteByKey(ctx, key); err != nil {
		return err
	}
	s.logger.Info("Setting deleted", zap.String("key", key))
	return nil
}

// Snapshot loads every stored setting over the built-in defaults
func (s *ConfigurationService) Snapshot(ctx context.Context) (configuration.Snapshot, error) {
	settings, err := s.repo.FindByPrefix(ctx, "")
	if err != nil {
		return configuration.Snapshot{}, err
	}
	return configuration.NewSnapshot(settings), nil
}

// RateCard returns the current rate card
func (s *ConfigurationService) RateCard(ctx context.Context) (pricing.RateCard, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return pricing.RateCard{}, err
	}
	return snap.RateCard()
}

// QuotePolicy returns the current quote and booking policy
func (s *ConfigurationService) QuotePolicy(ctx context.Context) (configuration.QuotePolicy, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return configuration.QuotePolicy{}, err
	}
	return snap.QuotePolicy()
}

func findDefault(key string) (configuration.Default, bool) {
	for _, d := range configuration.Defaults {
		if d.Key == key {
			return d, true
		}
	}
	return configuration.Default{}, false
}
