package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyMarshalsAsInteger(t *testing.T) {
	m := NewMoneyFromInt(25000)
	got, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal money failed: %v", err)
	}
	if string(got) != "25000" {
		t.Fatalf("money json want 25000 got %s", got)
	}
}

func TestMoneyUnmarshalAcceptsStringAndNumber(t *testing.T) {
	var fromNumber Money
	if err := json.Unmarshal([]byte("19000"), &fromNumber); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if fromNumber.Int() != 19000 {
		t.Fatalf("number money want 19000 got %d", fromNumber.Int())
	}

	var fromString Money
	if err := json.Unmarshal([]byte(`"19000"`), &fromString); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	if fromString.Int() != 19000 {
		t.Fatalf("string money want 19000 got %d", fromString.Int())
	}
}

func TestMoneyRoundsToWholeWon(t *testing.T) {
	m := NewMoneyFromDecimal(decimal.NewFromFloat(999.6))
	if m.Int() != 1000 {
		t.Fatalf("rounded money want 1000 got %d", m.Int())
	}
	if m.String() != "1000" {
		t.Fatalf("money string want 1000 got %s", m.String())
	}
}

func TestMoneyArithmeticKeepsWholeWon(t *testing.T) {
	total := NewMoneyFromInt(30000).Add(NewMoneyFromInt(4000)).Sub(NewMoneyFromInt(5000))
	if total.Int() != 29000 {
		t.Fatalf("arithmetic total want 29000 got %d", total.Int())
	}
	if got := NewMoneyFromInt(19000).MulInt(3); got.Int() != 57000 {
		t.Fatalf("mul total want 57000 got %d", got.Int())
	}
}
