package usecase

import (
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/checkout/internal/domain/errors"
)

const (
	FallbackSurname = "Butik"
	DefaultClientIP = "127.0.0.1"
	DefaultCity     = "Istanbul"
	DefaultCountry  = "Türkiye"
	DefaultZipCode  = "34000"
)

// ValidateIdentityNumber checks a Turkish national identity number: eleven
// digits, a non-zero first digit and the two trailing checksum digits.
func ValidateIdentityNumber(number string) error {
	if len(number) != 11 {
		return fmt.Errorf("%w: must contain 11 digits", domainErrors.ErrInvalidIdentityNumber)
	}

	var d [11]int
	for i := 0; i < len(number); i++ {
		c := number[i]
		if c < '0' || c > '9' {
			return fmt.Errorf("%w: must contain only digits", domainErrors.ErrInvalidIdentityNumber)
		}
		d[i] = int(c - '0')
	}
	if d[0] == 0 {
		return fmt.Errorf("%w: cannot start with 0", domainErrors.ErrInvalidIdentityNumber)
	}

	odd := d[0] + d[2] + d[4] + d[6] + d[8]
	even := d[1] + d[3] + d[5] + d[7]
	if ((odd*7-even)%10+10)%10 != d[9] {
		return fmt.Errorf("%w: checksum mismatch", domainErrors.ErrInvalidIdentityNumber)
	}

	sum := 0
	for _, v := range d[:10] {
		sum += v
	}
	if sum%10 != d[10] {
		return fmt.Errorf("%w: checksum mismatch", domainErrors.ErrInvalidIdentityNumber)
	}
	return nil
}

// NormalizePhone converts a local phone number to +90 international form.
// Numbers that already carry a leading '+' are returned unchanged.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "+") {
		return raw
	}

	digits := onlyDigits(raw)
	switch {
	case digits == "":
		return ""
	case len(digits) == 11 && digits[0] == '0':
		return "+90" + digits[1:]
	case len(digits) == 10:
		return "+90" + digits
	default:
		return "+" + digits
	}
}

// SplitBuyerName treats the last whitespace separated token as the surname.
func SplitBuyerName(full string) (name, surname string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", FallbackSurname
	case 1:
		return parts[0], FallbackSurname
	default:
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
}

// ClientIP returns the first X-Forwarded-For entry.
func ClientIP(forwardedFor string) string {
	first, _, _ := strings.Cut(forwardedFor, ",")
	if first = strings.TrimSpace(first); first != "" {
		return first
	}
	return DefaultClientIP
}

// NormalizeCardNumber drops the spaces users type between digit groups.
func NormalizeCardNumber(number string) string {
	return strings.ReplaceAll(strings.TrimSpace(number), " ", "")
}

// NormalizeExpireYear expands a two digit year to 20YY.
func NormalizeExpireYear(year string) string {
	year = strings.TrimSpace(year)
	if len(year) == 2 {
		return "20" + year
	}
	return year
}

func onlyDigits(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
