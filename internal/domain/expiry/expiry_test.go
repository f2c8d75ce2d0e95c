package expiry_test

import (
	"testing"
	"time"

	"github.com/okian/certcredit/internal/domain/expiry"
	"github.com/okian/certcredit/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEvaluate(t *testing.T) {
	now := day(2025, time.January, 1)

	Convey("Given an expiry date in the past", t, func() {
		v := expiry.Evaluate("Expires: January 15, 2023", now)

		Convey("Then the certification should be expired with no days left", func() {
			So(v.State, ShouldEqual, model.StateExpired)
			So(v.ParsedDate.String(), ShouldEqual, "2023-01-15")
			So(*v.DaysRemaining, ShouldEqual, 0)
		})
	})

	Convey("Given an expiry date in the future", t, func() {
		v := expiry.Evaluate("Expires: December 31, 2025", now)

		Convey("Then the certification should be valid with the day count", func() {
			So(v.State, ShouldEqual, model.StateValid)
			So(*v.DaysRemaining, ShouldEqual, 364)
		})
	})

	Convey("Given an expiry date centuries away", t, func() {
		v := expiry.Evaluate("Expires: December 31, 2400", now)

		Convey("Then the day count should not saturate", func() {
			So(v.State, ShouldEqual, model.StateValid)
			So(*v.DaysRemaining, ShouldEqual, 137330)
		})
	})

	Convey("Given an expiry date equal to today", t, func() {
		v := expiry.Evaluate("valid through 01/01/2025", now)

		Convey("Then the certification should still be valid", func() {
			So(v.State, ShouldEqual, model.StateValid)
			So(*v.DaysRemaining, ShouldEqual, 0)
		})
	})

	Convey("Given texts declaring no expiration", t, func() {
		texts := []string{"", "   ", "No Expiration Date", "Does not expire", "NONE", "Expiry: not specified", "no expiry"}

		Convey("Then every one should be valid without a date", func() {
			for _, text := range texts {
				v := expiry.Evaluate(text, now)
				So(v.State, ShouldEqual, model.StateValid)
				So(v.ParsedDate, ShouldBeNil)
				So(v.DaysRemaining, ShouldBeNil)
			}
		})
	})

	Convey("Given a badge banner with issue and expiry dates", t, func() {
		text := "Issued on March 3, 2023 Expires on March 3, 2026"

		Convey("When evaluating it", func() {
			v := expiry.Evaluate(text, day(2025, time.March, 3))

			Convey("Then the labelled expiry date should win over the issue date", func() {
				So(v.ParsedDate.String(), ShouldEqual, "2026-03-03")
				So(v.State, ShouldEqual, model.StateValid)
				So(*v.DaysRemaining, ShouldEqual, 365)
			})
		})
	})

	Convey("Given a bare month name date", t, func() {
		Convey("Then full and abbreviated month names should parse", func() {
			So(expiry.Evaluate("Sept 10, 2030", now).ParsedDate.String(), ShouldEqual, "2030-09-10")
			So(expiry.Evaluate("valid until aug. 1 2026", now).ParsedDate.String(), ShouldEqual, "2026-08-01")
			So(expiry.Evaluate("Earned May 5, 2020", now).State, ShouldEqual, model.StateExpired)
		})
	})

	Convey("Given an ISO date", t, func() {
		v := expiry.Evaluate("expiration 2026-01-01", now)

		Convey("Then it should parse", func() {
			So(v.ParsedDate.String(), ShouldEqual, "2026-01-01")
			So(*v.DaysRemaining, ShouldEqual, 365)
		})
	})

	Convey("Given tokens that name impossible dates", t, func() {
		Convey("Then later patterns should still be tried", func() {
			v := expiry.Evaluate("13/01/2025 or 2026-01-01", now)
			So(v.ParsedDate.String(), ShouldEqual, "2026-01-01")
		})

		Convey("Then a text with only impossible dates should be indeterminate", func() {
			So(expiry.Evaluate("Expires February 30, 2025", now).State, ShouldEqual, model.StateIndeterminate)
			So(expiry.Evaluate("2023-02-29", now).State, ShouldEqual, model.StateIndeterminate)
		})

		Convey("Then leap days should be accepted", func() {
			So(expiry.Evaluate("2024-02-29", now).State, ShouldEqual, model.StateExpired)
		})
	})

	Convey("Given text without a date", t, func() {
		v := expiry.Evaluate("Expires soon", now)

		Convey("Then the verdict should be indeterminate and still count", func() {
			So(v.State, ShouldEqual, model.StateIndeterminate)
			So(v.ParsedDate, ShouldBeNil)
			So(v.Counts(), ShouldBeTrue)
		})
	})

	Convey("Given a reference time late in the day in another zone", t, func() {
		late := time.Date(2025, time.January, 1, 23, 30, 0, 0, time.FixedZone("PST", -8*3600))

		Convey("Then only its own calendar day should be compared", func() {
			v := expiry.Evaluate("Expires: January 2, 2025", late)
			So(*v.DaysRemaining, ShouldEqual, 1)
		})
	})
}

func TestExtract(t *testing.T) {
	Convey("Given text with several date formats", t, func() {
		Convey("Then month names should take precedence over numeric dates", func() {
			d, ok := expiry.Extract("renewed 2024-05-01, expires 06/30/2027, last seen Jan 3, 2024")
			So(ok, ShouldBeTrue)
			So(d.String(), ShouldEqual, "2024-01-03")
		})

		Convey("Then numeric dates should take precedence over ISO dates", func() {
			d, ok := expiry.Extract("2024-05-01 then 06/30/2027")
			So(ok, ShouldBeTrue)
			So(d.String(), ShouldEqual, "2027-06-30")
		})

		Convey("Then text without dates should yield nothing", func() {
			_, ok := expiry.Extract("lifetime credential")
			So(ok, ShouldBeFalse)
		})
	})
}
