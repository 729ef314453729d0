package polymarket

import (
	"encoding/json"
	"strings"
)

// flexBool unmarshals from JSON bool or string ("true"/"false") so Gamma API
// responses work whether "active" is sent as bool or string.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = flexBool(strings.EqualFold(s, "true") || s == "1")
	return nil
}

// APIMarket is a market as returned by the Polymarket Gamma API. Outcomes and
// their prices arrive as JSON-encoded string arrays.
type APIMarket struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Slug          string   `json:"slug"`
	Active        flexBool `json:"active"`
	Closed        bool     `json:"closed"`
	Outcomes      string   `json:"outcomes"`      // e.g. "[\"Yes\",\"No\"]"
	OutcomePrices string   `json:"outcomePrices"` // e.g. "[\"0.41\",\"0.59\"]"
	Volume        string   `json:"volume"`
}

// YesNoPrices decodes the outcome arrays and returns the yes and no price
// strings. ok is false for non-binary markets or undecodable arrays.
func (m *APIMarket) YesNoPrices() (yes, no string, ok bool) {
	var outcomes, prices []string
	if err := json.Unmarshal([]byte(m.Outcomes), &outcomes); err != nil {
		return "", "", false
	}
	if err := json.Unmarshal([]byte(m.OutcomePrices), &prices); err != nil {
		return "", "", false
	}
	if len(outcomes) != 2 || len(prices) != 2 {
		return "", "", false
	}
	for i, o := range outcomes {
		switch strings.ToLower(o) {
		case "yes":
			yes = prices[i]
		case "no":
			no = prices[i]
		}
	}
	if yes == "" || no == "" {
		return "", "", false
	}
	return yes, no, true
}

// APIOrderResult is the response from placing an order via the CLOB API.
type APIOrderResult struct {
	Success      bool   `json:"success"`
	ErrorMsg     string `json:"errorMsg,omitempty"`
	OrderID      string `json:"orderID,omitempty"`
	Status       string `json:"status,omitempty"` // "matched", "live", "delayed", "unmatched"
	TakingAmount string `json:"takingAmount,omitempty"`
	MakingAmount string `json:"makingAmount,omitempty"`
}
