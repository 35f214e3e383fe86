package metrics

import (
	"math"
	"strconv"

	"imagecompare/types"
)

// FormatValue renders v with a fixed number of decimals. Non-finite values
// become the literal tokens inf, -inf and nan.
func FormatValue(v float64, precision int) string {
	switch {
	case math.IsNaN(v):
		return types.NaNToken
	case math.IsInf(v, 1):
		return types.InfToken
	case math.IsInf(v, -1):
		return types.NegInfToken
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}
