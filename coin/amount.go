package coin

import (
	"encoding/json"
	"math/big"
	"regexp"

	"github.com/iov-one/hashlock/errors"
)

// IsAssetID is the RegExp to ensure valid asset identifiers.
var IsAssetID = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9:._\-]{0,63}$`).MatchString

var (
	// maxAmount is the largest value an Amount can hold (2^127 - 1).
	maxAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	// minAmount is the lowest value an Amount can hold (-2^127).
	minAmount = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// Amount is a signed integer quantity of an asset, bounded to the signed
// 128 bit range. The zero value is a valid zero amount.
//
// Amount is immutable: all arithmetic returns a new value.
type Amount struct {
	i *big.Int
}

// NewAmount returns an amount of given value.
func NewAmount(v int64) Amount {
	return Amount{i: big.NewInt(v)}
}

// ParseAmount parses a decimal representation of an amount.
func ParseAmount(s string) (Amount, error) {
	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, errors.Wrapf(errors.ErrInvalidAmount, "cannot parse %q", s)
	}
	a := Amount{i: i}
	if err := a.Validate(); err != nil {
		return Amount{}, err
	}
	return a, nil
}

// MaxAmount returns the largest representable amount.
func MaxAmount() Amount {
	return Amount{i: new(big.Int).Set(maxAmount)}
}

// MinAmount returns the lowest representable amount.
func MinAmount() Amount {
	return Amount{i: new(big.Int).Set(minAmount)}
}

func (a Amount) int() *big.Int {
	if a.i == nil {
		return new(big.Int)
	}
	return a.i
}

// BigInt returns a copy of the underlying value.
func (a Amount) BigInt() *big.Int {
	return new(big.Int).Set(a.int())
}

// Validate returns an error if the amount is outside of the signed 128 bit
// range.
func (a Amount) Validate() error {
	i := a.int()
	if i.Cmp(maxAmount) > 0 || i.Cmp(minAmount) < 0 {
		return errors.Wrap(errors.ErrOverflow, "amount out of the 128 bit range")
	}
	return nil
}

// Add returns the sum of two amounts. Result outside of the allowed range
// is an overflow error.
func (a Amount) Add(b Amount) (Amount, error) {
	res := Amount{i: new(big.Int).Add(a.int(), b.int())}
	if err := res.Validate(); err != nil {
		return Amount{}, err
	}
	return res, nil
}

// Sub returns the difference of two amounts. Result outside of the allowed
// range is an overflow error.
func (a Amount) Sub(b Amount) (Amount, error) {
	res := Amount{i: new(big.Int).Sub(a.int(), b.int())}
	if err := res.Validate(); err != nil {
		return Amount{}, err
	}
	return res, nil
}

// Cmp compares two amounts and returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	return a.int().Cmp(b.int())
}

// Equals returns true if both amounts hold the same value.
func (a Amount) Equals(b Amount) bool {
	return a.Cmp(b) == 0
}

// Sign returns -1, 0 or +1 depending on the sign of the amount.
func (a Amount) Sign() int {
	return a.int().Sign()
}

// IsPositive returns true if the amount is greater than zero.
func (a Amount) IsPositive() bool {
	return a.Sign() > 0
}

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool {
	return a.Sign() == 0
}

// String returns the decimal representation.
func (a Amount) String() string {
	return a.int().String()
}

// MarshalJSON encodes the amount as a decimal string so that no precision
// is lost by JSON clients.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both a decimal string and a JSON number.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return errors.Wrap(errors.ErrInvalidAmount, "amount must be a string or a number")
		}
		s = n.String()
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
