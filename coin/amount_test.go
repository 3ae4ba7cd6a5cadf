package coin

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/hashlock/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    string
		wantErr *errors.Error
	}{
		"zero":         {raw: "0", want: "0"},
		"positive":     {raw: "1000", want: "1000"},
		"negative":     {raw: "-17", want: "-17"},
		"max":          {raw: "170141183460469231731687303715884105727", want: "170141183460469231731687303715884105727"},
		"min":          {raw: "-170141183460469231731687303715884105728", want: "-170141183460469231731687303715884105728"},
		"above max":    {raw: "170141183460469231731687303715884105728", wantErr: errors.ErrOverflow},
		"below min":    {raw: "-170141183460469231731687303715884105729", wantErr: errors.ErrOverflow},
		"not a number": {raw: "ten", wantErr: errors.ErrInvalidAmount},
		"fractional":   {raw: "1.5", wantErr: errors.ErrInvalidAmount},
		"empty":        {raw: "", wantErr: errors.ErrInvalidAmount},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			a, err := ParseAmount(tc.raw)
			if tc.wantErr != nil {
				if !tc.wantErr.Is(err) {
					t.Fatalf("want %q error, got %+v", tc.wantErr, err)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, a.String())
		})
	}
}

func TestAmountArithmetic(t *testing.T) {
	a := NewAmount(700)
	b := NewAmount(300)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "1000", sum.String())

	diff, err := b.Sub(a)
	require.NoError(t, err)
	assert.Equal(t, "-400", diff.String())
	assert.Equal(t, -1, diff.Sign())

	// operands are not modified
	assert.Equal(t, "700", a.String())
	assert.Equal(t, "300", b.String())

	_, err = MaxAmount().Add(NewAmount(1))
	if !errors.ErrOverflow.Is(err) {
		t.Fatalf("want overflow, got %+v", err)
	}
	_, err = MinAmount().Sub(NewAmount(1))
	if !errors.ErrOverflow.Is(err) {
		t.Fatalf("want overflow, got %+v", err)
	}
}

func TestAmountCompare(t *testing.T) {
	var zero Amount
	assert.True(t, zero.IsZero())
	assert.False(t, zero.IsPositive())
	assert.Equal(t, "0", zero.String())

	assert.True(t, NewAmount(1).IsPositive())
	assert.False(t, NewAmount(-1).IsPositive())
	assert.Equal(t, 1, NewAmount(5).Cmp(NewAmount(4)))
	assert.True(t, NewAmount(5).Equals(NewAmount(5)))
	assert.True(t, zero.Equals(NewAmount(0)))
}

func TestAmountJSON(t *testing.T) {
	max := MaxAmount()
	raw, err := json.Marshal(max)
	require.NoError(t, err)
	assert.Equal(t, `"170141183460469231731687303715884105727"`, string(raw))

	var got Amount
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, max.Equals(got))

	require.NoError(t, json.Unmarshal([]byte(`42`), &got))
	assert.Equal(t, "42", got.String())

	err = json.Unmarshal([]byte(`"x"`), &got)
	if !errors.ErrInvalidAmount.Is(err) {
		t.Fatalf("want invalid amount, got %+v", err)
	}
}

func TestIsAssetID(t *testing.T) {
	valid := []string{"XLM", "usdc", "USDC:GA5ZSEJYB37JRC5AVCIA5MOP4RHTM335X2KGX3IHOJAPP5RE34K4KZVN", "a", "my-token_1.0"}
	for _, v := range valid {
		assert.True(t, IsAssetID(v), v)
	}
	invalid := []string{"", "-abc", "with space", "a/b"}
	for _, v := range invalid {
		assert.False(t, IsAssetID(v), v)
	}
}
