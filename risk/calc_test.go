package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettleRoundTrip(t *testing.T) {
	t.Parallel()

	got := SettleRoundTrip(d("1000"), 5, d("1000"), d("1003"))
	assert.True(t, d("1015").Equal(got), "got %s", got)

	loss := SettleRoundTrip(d("200"), 1, d("997.43"), d("995.12"))
	assert.True(t, d("197.69").Equal(loss), "got %s", loss)
}

func TestSettleRoundTrip_ReverseIsExact(t *testing.T) {
	t.Parallel()

	cases := []struct {
		cash, buy, sell string
		qty             int64
	}{
		{"200", "997.13", "1002.71", 1},
		{"1000.01", "0.1", "0.2", 33},
		{"0", "995.555", "1004.999", 7},
		{"123456.789", "1000", "999.999", 120},
	}
	for _, c := range cases {
		out := SettleRoundTrip(d(c.cash), c.qty, d(c.buy), d(c.sell))
		back := SettleRoundTrip(out, c.qty, d(c.sell), d(c.buy))
		assert.True(t, d(c.cash).Equal(back), "cash %s came back as %s", c.cash, back)
	}
}

func TestRealizedPL(t *testing.T) {
	t.Parallel()

	assert.True(t, d("15").Equal(RealizedPL(5, d("1000"), d("1003"))))
	assert.True(t, d("-2.5").Equal(RealizedPL(1, d("1000"), d("997.5"))))
}
