package ton

import (
	"fmt"
	"math/big"
	"strings"
)

// 1 TON = 1_000_000_000 nanoTON.
const nanoDigits = 9

// ParseTON converts a decimal TON string (e.g. "5.5") to nanoTON.
func ParseTON(tonStr string) (*big.Int, error) {
	tonStr = strings.TrimSpace(tonStr)
	if tonStr == "" {
		return nil, fmt.Errorf("empty TON amount")
	}

	parts := strings.Split(tonStr, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid TON amount: %s", tonStr)
	}

	whole := parts[0]
	frac := ""
	if len(parts) == 2 {
		frac = parts[1]
	}

	if len(frac) > nanoDigits {
		frac = frac[:nanoDigits]
	}
	for len(frac) < nanoDigits {
		frac += "0"
	}

	nano, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid TON amount: %s", tonStr)
	}
	return nano, nil
}

// FormatNano renders a nanoTON amount as a decimal TON string with
// trailing zeros trimmed ("5500000000" -> "5.5").
func FormatNano(nano *big.Int) string {
	if nano == nil {
		return "0"
	}
	s := nano.String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for len(s) <= nanoDigits {
		s = "0" + s
	}
	whole := s[:len(s)-nanoDigits]
	frac := strings.TrimRight(s[len(s)-nanoDigits:], "0")
	out := whole
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
