package risk

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/lifecycle-bot/internal/types"
)

func TestPositionSize(t *testing.T) {
	tests := []struct {
		name    string
		budget  string
		price   string
		want    int64
		wantErr error
	}{
		{name: "exact multiple", budget: "1000", price: "100", want: 10},
		{name: "fractional result floors", budget: "1000", price: "333", want: 3},
		{name: "single unit", budget: "105.50", price: "100", want: 1},
		{name: "budget below price", budget: "99.99", price: "100", wantErr: types.ErrQuantityTooSmall},
		{name: "zero budget", budget: "0", price: "100", wantErr: types.ErrQuantityTooSmall},
		{name: "zero price", budget: "1000", price: "0", wantErr: types.ErrInvalidPrice},
		{name: "negative price", budget: "1000", price: "-5", wantErr: types.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PositionSize(
				decimal.RequireFromString(tt.budget),
				decimal.RequireFromString(tt.price),
			)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("PositionSize() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("PositionSize() = %d, want %d", got, tt.want)
			}
		})
	}
}
