package money

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Amount is a request field that accepts either a JSON number or a string.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return ErrInvalidAmount
	}
	*a = Amount(n.String())
	return nil
}

func (a Amount) IsZero() bool {
	return a == ""
}

// Decimal resolves the amount through ToMoney and rejects negatives.
func (a Amount) Decimal() (decimal.Decimal, error) {
	d, err := ToMoney(string(a))
	if err != nil {
		return d, err
	}
	return NonNegative(d)
}
