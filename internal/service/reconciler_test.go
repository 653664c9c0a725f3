package service

import (
	"testing"

	"catalog-web/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(rowNum int, sku string) *models.ImportCandidate {
	return &models.ImportCandidate{RowNum: rowNum, Name: "Product", Price: 10, SKU: sku}
}

func TestResolveClassifiesActions(t *testing.T) {
	reconciler := NewReconciler()

	existing := map[string]string{
		"DESK-001": "id-desk",
	}

	result := reconciler.Resolve([]*models.ImportCandidate{
		candidate(2, "DESK-001"), // known: update
		candidate(3, "NEW-001"),  // unknown: insert
		candidate(4, ""),         // no sku: insert
	}, existing)

	require.Len(t, result.Updates, 1)
	assert.Equal(t, models.ActionUpdate, result.Updates[0].Action)
	assert.Equal(t, "id-desk", result.Updates[0].TargetID)

	require.Len(t, result.Inserts, 2)
	assert.Equal(t, models.ActionInsert, result.Inserts[0].Action)
	assert.Equal(t, 3, result.Inserts[0].RowNum)
	assert.Equal(t, 4, result.Inserts[1].RowNum)

	assert.Empty(t, result.Rejected)
}

func TestResolveDuplicateSKUFirstRowWins(t *testing.T) {
	reconciler := NewReconciler()

	result := reconciler.Resolve([]*models.ImportCandidate{
		candidate(2, "DESK-001"),
		candidate(5, "DESK-001"),
		candidate(9, "DESK-001"),
	}, map[string]string{})

	require.Len(t, result.Inserts, 1)
	assert.Equal(t, 2, result.Inserts[0].RowNum)

	require.Len(t, result.Rejected, 2)
	assert.Equal(t, 5, result.Rejected[0].RowNum)
	assert.Equal(t, 9, result.Rejected[1].RowNum)
	require.Len(t, result.Rejected[0].Errors, 1)
	assert.Equal(t, "sku", result.Rejected[0].Errors[0].Field)
	assert.Equal(t, "duplicate SKU within upload", result.Rejected[0].Errors[0].Message)
}

func TestResolveMissingSKUNeverCollides(t *testing.T) {
	reconciler := NewReconciler()

	// Several rows without a SKU are all fresh inserts
	result := reconciler.Resolve([]*models.ImportCandidate{
		candidate(2, ""),
		candidate(3, ""),
		candidate(4, ""),
	}, map[string]string{})

	assert.Len(t, result.Inserts, 3)
	assert.Empty(t, result.Rejected)
}

func TestResolveMatchesInactiveProducts(t *testing.T) {
	reconciler := NewReconciler()

	// The snapshot covers inactive products, so the row becomes an update
	result := reconciler.Resolve([]*models.ImportCandidate{
		candidate(2, "OLD-001"),
	}, map[string]string{"OLD-001": "id-old"})

	require.Len(t, result.Updates, 1)
	assert.Equal(t, "id-old", result.Updates[0].TargetID)
	assert.Empty(t, result.Inserts)
}
