package usecase

import (
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/checkout/internal/domain/errors"
)

func TestValidateIdentityNumber(t *testing.T) {
	valid := []string{"10000000146", "11111111110", "12345678950"}
	for _, number := range valid {
		if err := ValidateIdentityNumber(number); err != nil {
			t.Fatalf("expected number %s to be valid, got %v", number, err)
		}
	}

	invalid := []string{"", "1234567890", "123456789012", "01234567890", "1000000014a", "10000000147", "10000000156"}
	for _, number := range invalid {
		if err := ValidateIdentityNumber(number); !errors.Is(err, domainErrors.ErrInvalidIdentityNumber) {
			t.Fatalf("expected number %q to be invalid, got %v", number, err)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"05551234567", "+905551234567"},
		{"0555 123 45 67", "+905551234567"},
		{"5551234567", "+905551234567"},
		{"(555) 123-4567", "+905551234567"},
		{"+905551234567", "+905551234567"},
		{"+1 555 123", "+1 555 123"},
		{"905551234567", "+905551234567"},
		{"12345", "+12345"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSplitBuyerName(t *testing.T) {
	cases := []struct {
		in, name, surname string
	}{
		{"Ada Lovelace", "Ada", "Lovelace"},
		{"  Ada  King   Lovelace ", "Ada King", "Lovelace"},
		{"Ada", "Ada", FallbackSurname},
		{"", "", FallbackSurname},
	}
	for _, tc := range cases {
		name, surname := SplitBuyerName(tc.in)
		if name != tc.name || surname != tc.surname {
			t.Fatalf("SplitBuyerName(%q) = %q %q, want %q %q", tc.in, name, surname, tc.name, tc.surname)
		}
	}
}

func TestClientIP(t *testing.T) {
	if got := ClientIP("203.0.113.7, 10.0.0.1"); got != "203.0.113.7" {
		t.Fatalf("unexpected ip %q", got)
	}
	if got := ClientIP(""); got != DefaultClientIP {
		t.Fatalf("expected default ip, got %q", got)
	}
	if got := ClientIP(" , 10.0.0.1"); got != DefaultClientIP {
		t.Fatalf("expected default ip for empty first entry, got %q", got)
	}
}

func TestCardNormalization(t *testing.T) {
	if got := NormalizeCardNumber(" 5528 7900 0000 0008 "); got != "5528790000000008" {
		t.Fatalf("unexpected card number %q", got)
	}
	if got := NormalizeExpireYear("30"); got != "2030" {
		t.Fatalf("unexpected year %q", got)
	}
	if got := NormalizeExpireYear("2031"); got != "2031" {
		t.Fatalf("unexpected year %q", got)
	}
}
