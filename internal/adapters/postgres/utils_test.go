package postgres

import (
	"math"
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestToFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{name: "nil", in: nil, want: 0},
		{name: "float64", in: 4.5, want: 4.5},
		{name: "int32", in: int32(7), want: 7},
		{name: "int64", in: int64(9), want: 9},
		{name: "numeric", in: pgtype.Numeric{Int: big.NewInt(4999), Exp: -2, Valid: true}, want: 49.99},
		{name: "null numeric", in: pgtype.Numeric{}, want: 0},
		{name: "numeric string", in: "12.5", want: 12.5},
		{name: "garbage string", in: "n/a", want: 0},
		{name: "bool", in: true, want: 0},
		{name: "numeric NaN", in: pgtype.Numeric{NaN: true, Valid: true}, want: 0},
		{name: "numeric infinity", in: pgtype.Numeric{InfinityModifier: pgtype.Infinity, Valid: true}, want: 0},
		{name: "float64 NaN", in: math.NaN(), want: 0},
		{name: "negative infinity", in: math.Inf(-1), want: 0},
		{name: "big float infinity", in: big.NewFloat(math.Inf(1)), want: 0},
		{name: "NaN string", in: "NaN", want: 0},
		{name: "Infinity bytes", in: []byte("Infinity"), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toFloat(tt.in); got != tt.want {
				t.Errorf("toFloat(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
