package voucher_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/presale/internal/domain/voucher"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDerive(t *testing.T) {
	Convey("Given the default voucher inputs", t, func() {
		amounts := []float64{300, 600, 1200, 2400, 4800}
		percents := []float64{1, 2, 3, 4, 5}

		Convey("When deriving without a bonus", func() {
			rows := voucher.Derive(amounts, percents, voucher.Params{TokenPrice: 4})

			Convey("Then each tier should carry its value and percent", func() {
				So(rows, ShouldHaveLength, 5)
				So(rows[2], ShouldResemble, voucher.Row{
					Package:       3,
					AmountTBC:     1200,
					ValueUSD:      4800,
					Percent:       3,
					FinalPercent:  3,
					FinalValueUSD: 4800,
				})
			})
		})

		Convey("When deriving with a 20% bonus", func() {
			rows := voucher.Derive(amounts, percents, voucher.Params{TokenPrice: 4, BonusPercent: 20})

			Convey("Then the bonus should lift percent and value", func() {
				So(rows[0].FinalPercent, ShouldEqual, 21)
				So(rows[0].FinalValueUSD, ShouldAlmostEqual, 1440, 1e-9)
				So(rows[4].FinalPercent, ShouldEqual, 25)
			})
		})

		Convey("When the percent list is short", func() {
			rows := voucher.Derive(amounts, percents[:2], voucher.Params{TokenPrice: 1})

			Convey("Then the missing percents should be 0", func() {
				So(rows[4].Percent, ShouldEqual, 0)
				So(rows[4].ValueUSD, ShouldEqual, 4800)
			})
		})
	})
}

func TestSeries(t *testing.T) {
	Convey("Given a base amount and a growth factor", t, func() {
		Convey("Then Series should generate a geometric progression", func() {
			So(voucher.Series(300, 2, 5), ShouldResemble, []float64{300, 600, 1200, 2400, 4800})
			So(voucher.Series(100, 1.5, 3), ShouldResemble, []float64{100, 150, 225})
		})

		Convey("And a non-positive count should yield an empty series", func() {
			So(voucher.Series(300, 2, 0), ShouldBeEmpty)
			So(voucher.Series(300, 2, -3), ShouldBeEmpty)
		})

		Convey("And a tier past float64 range should be 0", func() {
			So(voucher.Series(1, 1e300, 3), ShouldResemble, []float64{1, 1e300, 0})
		})
	})
}

func TestDeriveOverflow(t *testing.T) {
	Convey("Given voucher inputs whose products overflow float64", t, func() {
		Convey("When an amount is huge", func() {
			rows := voucher.Derive([]float64{300, 1e308}, []float64{1, 2}, voucher.Params{TokenPrice: 4})

			Convey("Then its USD cells should be 0 and the others intact", func() {
				So(rows[1].AmountTBC, ShouldEqual, 1e308)
				So(rows[1].ValueUSD, ShouldEqual, 0)
				So(rows[1].FinalValueUSD, ShouldEqual, 0)
				So(rows[0].ValueUSD, ShouldEqual, 1200)
			})
		})

		Convey("When the token price is huge", func() {
			rows := voucher.Derive([]float64{300}, []float64{1}, voucher.Params{TokenPrice: 1e308})

			Convey("Then the USD cells should be 0", func() {
				So(rows[0].ValueUSD, ShouldEqual, 0)
				So(rows[0].FinalValueUSD, ShouldEqual, 0)
			})
		})

		Convey("When the bonus is huge", func() {
			rows := voucher.Derive([]float64{300}, []float64{1}, voucher.Params{TokenPrice: 4, BonusPercent: math.MaxFloat64})

			Convey("Then every cell should stay finite", func() {
				So(rows[0].FinalPercent, ShouldEqual, math.MaxFloat64)
				So(rows[0].FinalValueUSD, ShouldEqual, 0)
				So(math.IsInf(rows[0].FinalValueUSD, 0) || math.IsNaN(rows[0].FinalValueUSD), ShouldBeFalse)
			})
		})
	})
}

func TestParseStrategy(t *testing.T) {
	Convey("Given strategy names from configuration", t, func() {
		Convey("Then known names should parse case-insensitively", func() {
			s, err := voucher.ParseStrategy(" Series ")
			So(err, ShouldBeNil)
			So(s, ShouldEqual, voucher.StrategySeries)

			s, err = voucher.ParseStrategy("explicit")
			So(err, ShouldBeNil)
			So(s, ShouldEqual, voucher.StrategyExplicit)
		})

		Convey("And an empty name should default to doubling", func() {
			s, err := voucher.ParseStrategy("")
			So(err, ShouldBeNil)
			So(s, ShouldEqual, voucher.StrategyDoubling)
		})

		Convey("And an unknown name should fail", func() {
			_, err := voucher.ParseStrategy("fibonacci")
			So(errors.Is(err, voucher.ErrUnknownStrategy), ShouldBeTrue)
		})
	})
}
