package wallet

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"WalletSupply/internal/model"
)

// Amount is the input a wallet can be opened with. The set of variants is
// closed: WholeUnits, DecimalString and BinaryString.
type Amount interface {
	subUnits() (int64, error)
}

// WholeUnits is a signed count of whole B.
type WholeUnits int64

// DecimalString is a decimal amount of B with at most 8 fractional digits,
// using either '.' or ',' as the separator and an optional exponent.
type DecimalString string

// BinaryString is a whole-unit count written in base 2.
type BinaryString string

var (
	decimalPattern = regexp.MustCompile(`^\s*([+-]?)\s*(\d+)(?:[.,](\d{0,8}))?(?:[eE]([+-]?\d+))?\s*$`)
	binaryPattern  = regexp.MustCompile(`^\s*[01]+\s*$`)

	maxUnits = decimal.NewFromInt(math.MaxInt64)
)

// Exponents above this make any non-zero amount exceed every possible cap.
const maxExponent = 32

func (n WholeUnits) subUnits() (int64, error) {
	units, err := model.WholeToUnits(int64(n))
	if err != nil {
		return 0, fmt.Errorf("%w: %d B", err, int64(n))
	}
	return units, nil
}

// subUnits converts the amount exactly and truncates anything below one
// sub-unit toward zero.
func (s DecimalString) subUnits() (int64, error) {
	m := decimalPattern.FindStringSubmatch(string(s))
	if m == nil {
		return 0, fmt.Errorf("%w: malformed decimal amount %q", model.ErrInvalidArgument, string(s))
	}
	negative, intDigits, fracDigits, expText := m[1] == "-", m[2], m[3], m[4]
	digits := intDigits + fracDigits

	if strings.Trim(digits, "0") == "" {
		return 0, nil
	}

	exp, err := parseExponent(expText)
	if err != nil {
		return 0, err
	}
	if exp > maxExponent {
		if negative {
			return 0, fmt.Errorf("%w: amount %q", model.ErrUnderflow, string(s))
		}
		return 0, fmt.Errorf("%w: amount %q", model.ErrOverflow, string(s))
	}
	// Far below one sub-unit: nothing survives truncation.
	if exp < -(len(digits) + 16) {
		return 0, nil
	}

	coef, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return 0, fmt.Errorf("%w: malformed decimal amount %q", model.ErrInvalidArgument, string(s))
	}
	value := decimal.NewFromBigInt(coef, int32(exp-len(fracDigits)))
	if negative {
		value = value.Neg()
	}

	units := value.Shift(8).Truncate(0)
	if units.Abs().GreaterThan(maxUnits) {
		if negative {
			return 0, fmt.Errorf("%w: amount %q", model.ErrUnderflow, string(s))
		}
		return 0, fmt.Errorf("%w: amount %q", model.ErrOverflow, string(s))
	}
	return units.IntPart(), nil
}

func parseExponent(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	exp, err := strconv.Atoi(text)
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(text, "-") {
			return math.MinInt32, nil
		}
		return math.MaxInt32, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: exponent %q", model.ErrInvalidArgument, text)
	}
	return exp, nil
}

func (s BinaryString) subUnits() (int64, error) {
	if !binaryPattern.MatchString(string(s)) {
		return 0, fmt.Errorf("%w: malformed binary amount %q", model.ErrInvalidArgument, string(s))
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(s)), 2, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: binary amount %q", model.ErrOverflow, string(s))
	}
	if err != nil {
		return 0, fmt.Errorf("%w: malformed binary amount %q", model.ErrInvalidArgument, string(s))
	}
	return WholeUnits(n).subUnits()
}
