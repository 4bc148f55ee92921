package orders

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	pkgerrors "github.com/dhruvmehta-dev/storefront-backend/pkg/errors"
)

const orderNumberSuffixLen = 5

var base36Max = new(big.Int).Exp(big.NewInt(36), big.NewInt(orderNumberSuffixLen), nil)

// GenerateOrderNumber produces a human-readable order reference of the
// form ORD-<unix millis>-<5 base36 chars>. Uniqueness is ultimately
// enforced by the database index on order_number.
func GenerateOrderNumber(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, base36Max)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating order number")
	}
	suffix := strings.ToUpper(n.Text(36))
	if len(suffix) < orderNumberSuffixLen {
		suffix = strings.Repeat("0", orderNumberSuffixLen-len(suffix)) + suffix
	}
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix), nil
}
