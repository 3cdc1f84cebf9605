package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carelinkvn/clinic-app/apperr"
)

const (
	// OrderTransferPrefix is the default tag for order references (don hang).
	OrderTransferPrefix = "DH"
	// PaymentTransferPrefix tags gateway-facing payment references.
	PaymentTransferPrefix = "PAY"

	minTransferPrefixLen = 2
	maxTransferPrefixLen = 5
	minTransferSuffixLen = 3
	maxTransferSuffixLen = 10
	minTransferLen       = minTransferPrefixLen + minTransferSuffixLen
	maxTransferLen       = maxTransferPrefixLen + maxTransferSuffixLen
)

// TransferContent is the bank-transfer reference sent to the payment gateway
// and typed into the transfer description by the payer.
type TransferContent struct {
	Prefix      string `json:"prefix"`
	Suffix      string `json:"suffix"`
	FullContent string `json:"fullContent"`
}

// GenerateTransferContent builds a transfer reference from an order code and
// the owning user. The suffix is always numeric: it takes up to the last 8
// digits of the order code, appends the user id when that yields fewer than 3,
// pads with '0' if still short and keeps only the last 10 when too long.
func GenerateTransferContent(orderCode string, userID uint, prefix string) (TransferContent, error) {
	if prefix == "" {
		prefix = OrderTransferPrefix
	}
	if len(prefix) < minTransferPrefixLen || len(prefix) > maxTransferPrefixLen {
		return TransferContent{}, fmt.Errorf("%w: transfer prefix must be %d-%d characters, got %q",
			apperr.ErrBadRequest, minTransferPrefixLen, maxTransferPrefixLen, prefix)
	}

	suffix := trailingDigits(orderCode, 8)
	if len(suffix) < minTransferSuffixLen {
		suffix += strconv.FormatUint(uint64(userID), 10)
	}
	for len(suffix) < minTransferSuffixLen {
		suffix += "0"
	}
	if len(suffix) > maxTransferSuffixLen {
		suffix = suffix[len(suffix)-maxTransferSuffixLen:]
	}

	return TransferContent{
		Prefix:      prefix,
		Suffix:      suffix,
		FullContent: prefix + suffix,
	}, nil
}

// ValidateTransferContent reports whether content can be a transfer reference:
// total length 5-15 with some 2-5 character prefix followed by 3-10 digits.
func ValidateTransferContent(content string) bool {
	_, ok := ParseTransferContent(content)
	return ok
}

// ParseTransferContent splits content into prefix and numeric suffix. Prefix
// lengths are tried shortest first, so "AB1234" parses as AB + 1234 even when
// a longer prefix would also fit.
func ParseTransferContent(content string) (TransferContent, bool) {
	n := len(content)
	if n < minTransferLen || n > maxTransferLen {
		return TransferContent{}, false
	}

	for pl := minTransferPrefixLen; pl <= maxTransferPrefixLen && pl < n; pl++ {
		suffix := content[pl:]
		if len(suffix) < minTransferSuffixLen || len(suffix) > maxTransferSuffixLen {
			continue
		}
		if !isDigits(suffix) {
			continue
		}
		return TransferContent{
			Prefix:      content[:pl],
			Suffix:      suffix,
			FullContent: content,
		}, true
	}
	return TransferContent{}, false
}

// GenerateOrderCode allocates a human-readable order code:
// DH + unix millis + 4 characters from a fresh UUID.
func GenerateOrderCode() string {
	tail := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return fmt.Sprintf("%s%d%s", OrderTransferPrefix, time.Now().UnixMilli(), tail[:4])
}

// trailingDigits collects up to max decimal digits from the end of s,
// preserving their original order.
func trailingDigits(s string, max int) string {
	buf := make([]byte, 0, max)
	for i := len(s) - 1; i >= 0 && len(buf) < max; i-- {
		if s[i] >= '0' && s[i] <= '9' {
			buf = append(buf, s[i])
		}
	}
	for l, r := 0, len(buf)-1; l < r; l, r = l+1, r-1 {
		buf[l], buf[r] = buf[r], buf[l]
	}
	return string(buf)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
