package repository

import (
	"testing"

	"github.com/Theloho/live-commerce-sub002/internal/constants"
	"github.com/Theloho/live-commerce-sub002/internal/models"
)

func TestEncodeOrderTypeAccountKeepsBaseType(t *testing.T) {
	identity := AccountIdentity(7)
	got := EncodeOrderType(constants.OrderTypeDirect, identity)
	if got != "direct" {
		t.Fatalf("encoded order type want direct got %s", got)
	}
}

func TestEncodeOrderTypeAnonymousEmbedsMarker(t *testing.T) {
	identity := AnonymousIdentity("kakao", " 3456789012 ")
	got := EncodeOrderType(constants.OrderTypeCart, identity)
	if got != "cart:KAKAO:3456789012" {
		t.Fatalf("encoded order type want cart:KAKAO:3456789012 got %s", got)
	}
}

func TestDecodeOrderTypeStripsMarker(t *testing.T) {
	cases := map[string]string{
		"direct":                      "direct",
		"direct:KAKAO:3456789012":     "direct",
		"cart:KAKAO:3456789012":       "cart",
		"bulk_payment:KAKAO:99887766": "bulk_payment",
	}
	for input, want := range cases {
		if got := DecodeOrderType(input); got != want {
			t.Fatalf("decode %s want %s got %s", input, want, got)
		}
	}
}

func TestOrderIdentityClassification(t *testing.T) {
	account := AccountIdentity(12)
	if account.IsAnonymous() {
		t.Fatalf("account identity should not be anonymous")
	}
	if account.IsZero() {
		t.Fatalf("account identity should not be zero")
	}
	if account.Key() != "user:12" {
		t.Fatalf("account key want user:12 got %s", account.Key())
	}

	anonymous := AnonymousIdentity("KAKAO", "3456789012")
	if !anonymous.IsAnonymous() {
		t.Fatalf("social identity should be anonymous")
	}
	if anonymous.Key() != "KAKAO:3456789012" {
		t.Fatalf("anonymous key want KAKAO:3456789012 got %s", anonymous.Key())
	}

	var zero OrderIdentity
	if !zero.IsZero() {
		t.Fatalf("empty identity should be zero")
	}
	if zero.IsAnonymous() {
		t.Fatalf("empty identity should not be anonymous")
	}
}

func TestDedupeOrdersByIDKeepsFirstOccurrence(t *testing.T) {
	orders := []models.Order{
		{ID: 3, OrderNo: "S260830-AAAA"},
		{ID: 1, OrderNo: "S260830-BBBB"},
		{ID: 3, OrderNo: "S260830-AAAA"},
		{ID: 2, OrderNo: "S260830-CCCC"},
	}
	got := DedupeOrdersByID(orders)
	if len(got) != 3 {
		t.Fatalf("deduped len want 3 got %d", len(got))
	}
	if got[0].ID != 3 || got[1].ID != 1 || got[2].ID != 2 {
		t.Fatalf("dedupe should keep order of first occurrence, got %+v", got)
	}
}
