package fees_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/townhub/wallet/pkg/fees"
)

func TestFee(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		amount  int64
		percent float64
		exempt  bool
		want    int64
	}{
		{"five percent of 600", 600, 5, false, 30},
		{"five percent of 100", 100, 5, false, 5},
		{"ten percent of 250", 250, 10, false, 25},
		{"rounds up at half", 50, 5, false, 3},   // 2.5 -> 3
		{"rounds down below half", 49, 5, false, 2}, // 2.45 -> 2
		{"exempt pays nothing", 600, 5, true, 0},
		{"zero percent", 600, 0, false, 0},
		{"zero amount", 0, 5, false, 0},
		{"negative amount", -10, 5, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fees.Fee(tt.amount, tt.percent, tt.exempt))
		})
	}
}

func TestDefaultPercents(t *testing.T) {
	t.Parallel()
	p := fees.DefaultPercents()
	assert.Equal(t, 5.0, p.P2P)
	assert.Equal(t, 5.0, p.Invoice)
	assert.Equal(t, 5.0, p.Withdrawal)
	assert.Equal(t, 10.0, p.Ticket)
}
