// Package quickadd turns free-text input like "nasi goreng Rp 25k" into an
// expense draft.
package quickadd

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aryapratama/duittui/duit"
)

// ErrNoAmount means no numeric token was found in the input; the submission
// must be rejected before any network call.
var ErrNoAmount = errors.New("no amount found in input")

// ErrNoCategories means the fallback category could not be chosen because
// the category list is empty.
var ErrNoCategories = errors.New("no categories exist to default to")

// Draft is a parsed quick-add entry. Amount is in whole rupiah.
type Draft struct {
	Description string
	Amount      int64
	CreatedAt   time.Time
}

// amountPattern captures the first numeric token with an optional "rp"
// prefix and an optional thousands suffix: "rp 25k", "25rb", "25.000",
// "25,000".
var amountPattern = regexp.MustCompile(`(?i)(?:rp\s*)?(\d+(?:[.,]\d+)?\s?(k|rb)?)`)

const thousandMultiplier = 1000

// Parse extracts the amount from raw. The whole raw text becomes the draft's
// description and CreatedAt is stamped with now. ErrNoAmount is returned
// when no numeric token exists.
func Parse(raw string, now time.Time) (Draft, error) {
	text := strings.ToLower(strings.TrimSpace(raw))

	match := amountPattern.FindStringSubmatch(text)
	if match == nil {
		return Draft{}, ErrNoAmount
	}

	digits := nonDigits.ReplaceAllString(match[1], "")
	if digits == "" {
		return Draft{}, ErrNoAmount
	}

	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Draft{}, ErrNoAmount
	}

	if match[2] != "" {
		amount *= thousandMultiplier
	}

	return Draft{
		Description: raw,
		Amount:      amount,
		CreatedAt:   now,
	}, nil
}

var nonDigits = regexp.MustCompile(`[^\d]`)

// DefaultCategory picks the category a quick-add entry falls into when the
// user named none: the first category the backend returns. ErrNoCategories
// is returned when there is nothing to default to.
func DefaultCategory(categories []duit.Category) (duit.Category, error) {
	if len(categories) == 0 {
		return duit.Category{}, ErrNoCategories
	}
	return categories[0], nil
}
