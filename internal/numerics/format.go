package numerics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const minusSign = "−"

// String renders z as "a + bi" with U+2212 MINUS SIGN for negative parts,
// for example "−1.5 − 2i".
func (z Complex) String() string {
	return z.format(minusSign)
}

// ASCIIString renders z as "a + bi" with an ASCII hyphen for negative parts,
// for example "-1.5 - 2i". It is the machine-readable counterpart of String.
func (z Complex) ASCIIString() string {
	return z.format("-")
}

func (z Complex) format(minus string) string {
	var sb strings.Builder
	if math.Signbit(z.re) {
		sb.WriteString(minus)
	}
	sb.WriteString(formatMagnitude(z.re))
	if math.Signbit(z.im) {
		sb.WriteString(" " + minus + " ")
	} else {
		sb.WriteString(" + ")
	}
	sb.WriteString(formatMagnitude(z.im))
	sb.WriteString("i")
	return sb.String()
}

func formatMagnitude(v float64) string {
	return strconv.FormatFloat(math.Abs(v), 'g', -1, 64)
}

// Parse reads a complex number in either rendering produced by String or
// ASCIIString. Whitespace is ignored. A value without a trailing "i" is read
// as a real number and a lone imaginary term such as "2i" is accepted.
//
// Returns an error wrapping ErrInvalidNumber if s is malformed or names a
// non-finite component.
func Parse(s string) (Complex, error) {
	t := strings.ReplaceAll(s, minusSign, "-")
	t = strings.Join(strings.Fields(t), "")
	if t == "" {
		return Complex{}, fmt.Errorf("%w: empty string", ErrInvalidNumber)
	}

	if !strings.HasSuffix(t, "i") {
		re, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return Complex{}, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
		}
		return New(re, 0)
	}

	body := t[:len(t)-1]
	split := -1
	for i := len(body) - 1; i > 0; i-- {
		ch := body[i]
		if (ch == '+' || ch == '-') && body[i-1] != 'e' && body[i-1] != 'E' {
			split = i
			break
		}
	}

	reText, imText := "0", body
	if split >= 0 {
		reText, imText = body[:split], body[split:]
	}

	re, err := strconv.ParseFloat(reText, 64)
	if err != nil {
		return Complex{}, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	im, err := parseImaginary(imText)
	if err != nil {
		return Complex{}, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return New(re, im)
}

func parseImaginary(text string) (float64, error) {
	switch text {
	case "", "+":
		return 1, nil
	case "-":
		return -1, nil
	}
	return strconv.ParseFloat(text, 64)
}

type complexJSON struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

// MarshalJSON encodes z as {"re":a,"im":b}.
func (z Complex) MarshalJSON() ([]byte, error) {
	return json.Marshal(complexJSON{Re: z.re, Im: z.im})
}

// UnmarshalJSON accepts either {"re":a,"im":b} or a string in a form Parse
// understands. Missing fields default to 0.
func (z *Complex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := Parse(s)
		if err != nil {
			return err
		}
		*z = v
		return nil
	}

	var raw complexJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidNumber, err)
	}
	v, err := New(raw.Re, raw.Im)
	if err != nil {
		return err
	}
	*z = v
	return nil
}
