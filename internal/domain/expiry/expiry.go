// Package expiry parses expiry expressions and classifies certification
// validity relative to a reference date.
package expiry

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/okian/certcredit/internal/domain/model"
	"github.com/okian/certcredit/internal/domain/types"
)

const secondsPerDay = 24 * 60 * 60

const monthPattern = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(\d{1,2}),?\s+(\d{4})`

var (
	noExpiryRe = regexp.MustCompile(`(?i)\b(?:no expiration|does not expire|not specified|none|no expiry)\b`)

	labelledRe = regexp.MustCompile(`(?i)\b(?:expires|expiry|expiration)(?:\s+(?:date|on))?\s*[:\-]?\s*` + monthPattern + `\b`)
	monthRe    = regexp.MustCompile(`(?i)\b` + monthPattern + `\b`)
	numericRe  = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	isoRe      = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// extractor pulls a date out of text; ok is false when the pattern is absent
// or every occurrence names an impossible calendar date.
type extractor func(text string) (d types.Date, ok bool)

// extractors in precedence order.
var extractors = []extractor{
	monthNameDates(labelledRe),
	monthNameDates(monthRe),
	numericDates,
	isoDates,
}

// Evaluate classifies expiryText against now. Empty text and explicit
// no-expiration phrases are valid; text without a usable date is
// indeterminate.
func Evaluate(expiryText string, now time.Time) model.ValidityVerdict {
	text := strings.TrimSpace(expiryText)
	if text == "" || noExpiryRe.MatchString(text) {
		return model.ValidityVerdict{State: model.StateValid}
	}

	d, ok := Extract(text)
	if !ok {
		return model.ValidityVerdict{State: model.StateIndeterminate}
	}
	return Classify(d, now)
}

// Extract finds the expiry date in text using the first pattern that yields a
// real calendar date.
func Extract(text string) (types.Date, bool) {
	for _, ex := range extractors {
		if d, ok := ex(text); ok {
			return d, true
		}
	}
	return types.Date{}, false
}

// Classify compares a parsed expiry date with the calendar day of now.
func Classify(d types.Date, now time.Time) model.ValidityVerdict {
	today := types.NewDate(now)
	// Unix seconds avoid the ~292 year limit of time.Duration.
	days := int((d.Unix() - today.Unix()) / secondsPerDay)
	if days < 0 {
		zero := 0
		return model.ValidityVerdict{State: model.StateExpired, ParsedDate: &d, DaysRemaining: &zero}
	}
	return model.ValidityVerdict{State: model.StateValid, ParsedDate: &d, DaysRemaining: &days}
}

func monthNameDates(re *regexp.Regexp) extractor {
	return func(text string) (types.Date, bool) {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			month := months[strings.ToLower(m[1])[:3]]
			if d, ok := calendarDate(m[3], month, m[2]); ok {
				return d, true
			}
		}
		return types.Date{}, false
	}
}

func numericDates(text string) (types.Date, bool) {
	for _, m := range numericRe.FindAllStringSubmatch(text, -1) {
		mm, _ := strconv.Atoi(m[1])
		if mm < 1 || mm > 12 {
			continue
		}
		if d, ok := calendarDate(m[3], time.Month(mm), m[2]); ok {
			return d, true
		}
	}
	return types.Date{}, false
}

func isoDates(text string) (types.Date, bool) {
	for _, m := range isoRe.FindAllStringSubmatch(text, -1) {
		if d, err := types.ParseDate(m[0]); err == nil {
			return d, true
		}
	}
	return types.Date{}, false
}

// calendarDate rejects days that do not exist in the given month.
func calendarDate(year string, month time.Month, day string) (types.Date, bool) {
	y, err := strconv.Atoi(year)
	if err != nil || month == 0 {
		return types.Date{}, false
	}
	dd, err := strconv.Atoi(day)
	if err != nil || dd < 1 {
		return types.Date{}, false
	}
	t := time.Date(y, month, dd, 0, 0, 0, 0, time.UTC)
	if t.Day() != dd || t.Month() != month {
		return types.Date{}, false
	}
	return types.Date{Time: t}, true
}
