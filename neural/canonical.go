package neural

import (
	"math"
	"strconv"
	"strings"
)

// CanonicalText renders the layer sizes, weights and biases as compact JSON
// with a fixed key order:
//
//	{"layer_sizes":[14,8,8],"weights":[[...],[...]],"biases":[[...],[...]]}
//
// Floats use the shortest round-trip digits, always with a fractional part
// or exponent, so that equal brains always produce equal text.
func CanonicalText(b *Brain) string {
	var sb strings.Builder
	sb.WriteString(`{"layer_sizes":[`)
	for i, n := range b.LayerSizes {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(n), 10))
	}
	sb.WriteString(`],"weights":`)
	writeMatrix(&sb, b.Weights)
	sb.WriteString(`,"biases":`)
	writeMatrix(&sb, b.Biases)
	sb.WriteByte('}')
	return sb.String()
}

func writeMatrix(sb *strings.Builder, rows [][]float32) {
	sb.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('[')
		for j, v := range row {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(formatFloat32(v))
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(']')
}

// formatFloat32 prints v with its shortest digits. Decimal exponents in
// (-6, 13] are written positionally ("12.5", "0.0001", "3.0"), others in
// scientific form ("1e-7", "1.5e20").
func formatFloat32(v float32) string {
	if v == 0 {
		if math.Signbit(float64(v)) {
			return "-0.0"
		}
		return "0.0"
	}

	sci := strconv.FormatFloat(float64(v), 'e', -1, 32)
	neg := sci[0] == '-'
	if neg {
		sci = sci[1:]
	}
	mant, expStr, _ := strings.Cut(sci, "e")
	exp, _ := strconv.Atoi(expStr)
	digits := strings.Replace(mant, ".", "", 1)

	n := len(digits)
	kk := exp + 1 // position of the decimal point relative to the first digit
	k := kk - n

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	switch {
	case k >= 0 && kk <= 13:
		sb.WriteString(digits)
		sb.WriteString(strings.Repeat("0", k))
		sb.WriteString(".0")
	case kk > 0 && kk <= 13:
		sb.WriteString(digits[:kk])
		sb.WriteByte('.')
		sb.WriteString(digits[kk:])
	case kk > -6 && kk <= 0:
		sb.WriteString("0.")
		sb.WriteString(strings.Repeat("0", -kk))
		sb.WriteString(digits)
	default:
		sb.WriteByte(digits[0])
		if n > 1 {
			sb.WriteByte('.')
			sb.WriteString(digits[1:])
		}
		sb.WriteByte('e')
		sb.WriteString(strconv.Itoa(kk - 1))
	}
	return sb.String()
}

// HashText folds s with hash = hash*31 + byte over 32-bit wrapping
// arithmetic and renders the result in base 36.
func HashText(s string) string {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(s[i])
	}
	return strconv.FormatUint(uint64(h), 36)
}

// Hash returns the canonical signature of a brain's parameters.
// Activations do not contribute.
func Hash(b *Brain) string {
	return HashText(CanonicalText(b))
}
