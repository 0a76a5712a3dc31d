package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quotebook/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted, otherwise defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// Whitelisted sort columns per table
var (
	RuleSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "name": true, "priority": true, "service_type": true,
	}
	SettingSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "key": true,
	}
	CustomerSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "name": true, "email": true,
	}
	QuoteSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "quote_number": true, "final_price": true,
		"expires_at": true, "service_date": true, "status": true,
	}
	BookingSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "booking_number": true, "scheduled_at": true,
		"total_amount": true, "status": true,
	}
	NotificationSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "status": true, "channel": true,
	}
	DocumentSortFields = map[string]bool{
		"created_at": true, "filename": true, "size": true,
	}
)

// paginate applies ordering, offset and limit from the filter
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(fmt.Sprintf("%s %s", field, ValidateSortOrder(filter.OrderDir)))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// filterString returns a non-empty string filter value
func filterString(filter shared.Filter, key string) (string, bool) {
	if filter.Filters == nil {
		return "", false
	}
	v, ok := filter.Filters[key]
	if !ok {
		return "", false
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	return s, s != ""
}

// filterBool returns a boolean filter value given as bool or "true"/"false"
func filterBool(filter shared.Filter, key string) (bool, bool) {
	if filter.Filters == nil {
		return false, false
	}
	switch v := filter.Filters[key].(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(v) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// mapError converts gorm errors into domain errors
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	default:
		return err
	}
}

// saveVersioned inserts aggregates that were never stored and otherwise
// updates the row only while it still carries the version the aggregate was
// loaded at. A missed update on an existing row is a concurrent modification.
func saveVersioned(ctx context.Context, db *gorm.DB, model schema.Tabler, agg shared.AggregateRoot) error {
	stored := agg.StoredVersion()
	if stored == 0 {
		if err := db.WithContext(ctx).Create(model).Error; err != nil {
			return mapError(err)
		}
		agg.MarkStored()
		return nil
	}

	result := db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", agg.GetID(), stored).
		Select("*").
		Updates(model)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected > 0 {
		agg.MarkStored()
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Table(model.TableName()).Where("id = ?", agg.GetID()).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrConcurrencyConflict
	}
	return shared.ErrNotFound
}
