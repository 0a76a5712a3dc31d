//go:build integration

package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/quotebook/backend/internal/domain/configuration"
	"github.com/quotebook/backend/internal/domain/pricing"
	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/quotebook/backend/internal/infrastructure/persistence"
	"github.com/quotebook/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededSettingsMatchDefaults(t *testing.T) {
	tdb := NewTestDB(t)
	repo := persistence.NewGormSettingRepository(tdb.DB)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	for _, d := range configuration.Defaults {
		setting, err := repo.FindByKey(ctx, d.Key)
		require.NoError(t, err, d.Key)
		assert.Equal(t, d.Value, setting.Value, d.Key)
		assert.Equal(t, d.ValueType, setting.ValueType, d.Key)
	}

	settings, err := repo.FindByPrefix(ctx, "pricing.cleaning.")
	require.NoError(t, err)
	assert.Len(t, settings, 4)
}

func TestSettingChangesReprice(t *testing.T) {
	app := newTestApp(t)

	w := app.admin(t, http.MethodPut, "/api/v1/admin/configurations/"+configuration.KeyCleaningBaseRate, map[string]any{
		"value":      "100",
		"value_type": "number",
	})
	testutil.RequireStatus(t, w, http.StatusOK)
	assert.Equal(t, "100", testutil.Field(w, "data.value").String())

	w = app.public(t, http.MethodPost, "/api/v1/quotes/estimate", cleaningQuote("")["service"])
	testutil.RequireStatus(t, w, http.StatusOK)
	assert.True(t, amount(t, w, "data.pricing.final_price").Equal(decimal.NewFromInt(170)))

	w = app.admin(t, http.MethodPut, "/api/v1/admin/configurations/"+configuration.KeyBookingDepositPercent, map[string]any{
		"value":      "not-a-number",
		"value_type": "number",
	})
	testutil.AssertErrorCode(t, w, http.StatusUnprocessableEntity, "ERR_INVALID_SETTING_VALUE")
}

func TestRuleRepositoryActiveForService(t *testing.T) {
	tdb := NewTestDB(t)
	repo := persistence.NewGormRuleRepository(tdb.DB)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	newRule := func(name string, serviceType pricing.ServiceType, priority int) *pricing.Rule {
		adj, err := pricing.NewAdjustment(pricing.AdjustmentFixed, decimal.NewFromInt(5))
		require.NoError(t, err)
		rule, err := pricing.NewRule(name, "", serviceType, adj, priority)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, rule))
		return rule
	}

	newRule("Moving only", pricing.ServiceTypeMoving, 1)
	global := newRule("Everything", "", 2)
	cleaning := newRule("Cleaning only", pricing.ServiceTypeCleaning, 0)
	inactive := newRule("Switched off", pricing.ServiceTypeCleaning, 0)
	require.NoError(t, inactive.Deactivate())
	require.NoError(t, repo.Save(ctx, inactive))

	rules, err := repo.FindActiveForService(ctx, pricing.ServiceTypeCleaning)
	require.NoError(t, err)
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	assert.ElementsMatch(t, []string{cleaning.Name, global.Name}, names)

	loaded, err := repo.FindByID(ctx, global.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.ServiceType)
	assert.True(t, loaded.Adjustment.Value.Equal(decimal.NewFromInt(5)))

	exists, err := repo.ExistsByName(ctx, "Everything")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, global.ID))
	_, err = repo.FindByID(ctx, global.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestQuoteRepositoryOptimisticLocking(t *testing.T) {
	app := newTestApp(t)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)
	repo := persistence.NewGormQuoteRepository(app.db.DB)

	w := app.public(t, http.MethodPost, "/api/v1/quotes", cleaningQuote("lock@example.com"))
	testutil.RequireStatus(t, w, http.StatusCreated)
	number := testutil.Field(w, "data.quote_number").String()

	first, err := repo.FindByNumber(ctx, number)
	require.NoError(t, err)
	stale, err := repo.FindByNumber(ctx, number)
	require.NoError(t, err)

	require.NoError(t, first.Reject("too expensive", time.Now()))
	require.NoError(t, repo.Save(ctx, first))

	require.NoError(t, stale.Reject("duplicate", time.Now()))
	assert.ErrorIs(t, repo.Save(ctx, stale), shared.ErrConcurrencyConflict)
}

func TestRuleRepositoryRejectsStaleMultiEdit(t *testing.T) {
	tdb := NewTestDB(t)
	repo := persistence.NewGormRuleRepository(tdb.DB)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	adj, err := pricing.NewAdjustment(pricing.AdjustmentPercentage, decimal.NewFromInt(10))
	require.NoError(t, err)
	rule, err := pricing.NewRule("Peak season", "", pricing.ServiceTypeMoving, adj, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, rule))

	editor, err := repo.FindByID(ctx, rule.ID)
	require.NoError(t, err)
	toggler, err := repo.FindByID(ctx, rule.ID)
	require.NoError(t, err)

	require.NoError(t, toggler.Deactivate())
	require.NoError(t, repo.Save(ctx, toggler))

	require.NoError(t, editor.Update("Peak season", "summer", pricing.ServiceTypeMoving, adj, 2))
	require.NoError(t, editor.SetConditions(nil))
	require.NoError(t, editor.SetValidity(nil, nil))
	assert.ErrorIs(t, repo.Save(ctx, editor), shared.ErrConcurrencyConflict)

	stored, err := repo.FindByID(ctx, rule.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Equal(t, 2, stored.Version)
}
