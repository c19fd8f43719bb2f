package models

import (
	"encoding/json"
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionPOStatus(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{POStatusPending, POStatusCompleted, true},
		{POStatusPending, POStatusCanceled, true},
		{POStatusPending, POStatusPending, true},
		{POStatusCompleted, POStatusCompleted, true},
		{POStatusCompleted, POStatusPending, false},
		{POStatusCompleted, POStatusCanceled, false},
		{POStatusCanceled, POStatusPending, false},
		{POStatusCanceled, POStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionPOStatus(tt.from, tt.to))
		})
	}
}

func TestIsValidPOStatus(t *testing.T) {
	assert.True(t, IsValidPOStatus("pending"))
	assert.True(t, IsValidPOStatus("completed"))
	assert.True(t, IsValidPOStatus("canceled"))
	assert.False(t, IsValidPOStatus("completed_with_issues"))
	assert.False(t, IsValidPOStatus(""))
}

func TestPurchaseOrderItemsJSON(t *testing.T) {
	var po PurchaseOrder
	require.NoError(t, json.Unmarshal([]byte(`{"items":[{"sku":"A-1","qty":3}]}`), &po))
	assert.JSONEq(t, `[{"sku":"A-1","qty":3}]`, string(po.Items))

	require.NoError(t, po.Items.Scan([]byte(`{"a":1}`)))
	assert.JSONEq(t, `{"a":1}`, string(po.Items))

	require.NoError(t, po.Items.Scan(nil))
	out, err := json.Marshal(struct {
		Items types.JSONText `json:"items"`
	}{po.Items})
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":null}`, string(out))

	assert.Error(t, po.Items.Scan(42))
}
