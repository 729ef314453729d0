package polymarket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYesNoPrices_Binary(t *testing.T) {
	m := APIMarket{
		Outcomes:      `["Yes", "No"]`,
		OutcomePrices: `["0.42", "0.58"]`,
	}
	yes, no, ok := m.YesNoPrices()
	require.True(t, ok)
	assert.Equal(t, "0.42", yes)
	assert.Equal(t, "0.58", no)
}

func TestYesNoPrices_OrderIndependent(t *testing.T) {
	m := APIMarket{
		Outcomes:      `["No", "Yes"]`,
		OutcomePrices: `["0.58", "0.42"]`,
	}
	yes, no, ok := m.YesNoPrices()
	require.True(t, ok)
	assert.Equal(t, "0.42", yes)
	assert.Equal(t, "0.58", no)
}

func TestYesNoPrices_NonBinaryRejected(t *testing.T) {
	m := APIMarket{
		Outcomes:      `["Biden", "Trump", "Other"]`,
		OutcomePrices: `["0.4", "0.5", "0.1"]`,
	}
	_, _, ok := m.YesNoPrices()
	assert.False(t, ok)
}

func TestYesNoPrices_MalformedArrays(t *testing.T) {
	m := APIMarket{Outcomes: `not json`, OutcomePrices: `["0.4", "0.6"]`}
	_, _, ok := m.YesNoPrices()
	assert.False(t, ok)

	m = APIMarket{Outcomes: `["Up", "Down"]`, OutcomePrices: `["0.4", "0.6"]`}
	_, _, ok = m.YesNoPrices()
	assert.False(t, ok, "binary but not yes/no outcomes")
}

func TestFlexBool_AcceptsBoolAndString(t *testing.T) {
	var m APIMarket
	require.NoError(t, json.Unmarshal([]byte(`{"active": true}`), &m))
	assert.True(t, bool(m.Active))

	require.NoError(t, json.Unmarshal([]byte(`{"active": "true"}`), &m))
	assert.True(t, bool(m.Active))

	require.NoError(t, json.Unmarshal([]byte(`{"active": "false"}`), &m))
	assert.False(t, bool(m.Active))
}
