package i18n

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseAndSplit(t *testing.T) {
	Convey("Given URL locale segments", t, func() {
		Convey("Then supported codes should parse case-insensitively", func() {
			l, ok := Parse("zh-Hans")
			So(ok, ShouldBeTrue)
			So(l, ShouldEqual, SimplifiedChinese)
			_, ok = Parse("fr")
			So(ok, ShouldBeFalse)
		})

		Convey("Then Split should strip a locale prefix", func() {
			l, rest, ok := Split("/vi/admin/dashboard")
			So(ok, ShouldBeTrue)
			So(l, ShouldEqual, Vietnamese)
			So(rest, ShouldEqual, "/admin/dashboard")

			l, rest, ok = Split("/en")
			So(ok, ShouldBeTrue)
			So(l, ShouldEqual, English)
			So(rest, ShouldEqual, "/")

			_, rest, ok = Split("/admin/dashboard")
			So(ok, ShouldBeFalse)
			So(rest, ShouldEqual, "/admin/dashboard")
		})

		Convey("Then Locales should list the four supported codes", func() {
			So(Locales(), ShouldResemble, []Locale{English, Vietnamese, SimplifiedChinese, TraditionalChinese})
			So(TraditionalChinese.Label(), ShouldEqual, "繁體中文")
		})
	})
}

func TestResolve(t *testing.T) {
	Convey("Given a resolver defaulting to English", t, func() {
		r := NewResolver("en")

		Convey("When the request carries Accept-Language", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Accept-Language", "zh-TW,zh;q=0.9,en;q=0.5")

			Convey("Then the best supported locale should win", func() {
				So(r.Resolve(req), ShouldEqual, TraditionalChinese)
			})
		})

		Convey("When the request carries the lang query and cookie", func() {
			req := httptest.NewRequest(http.MethodGet, "/?lang=vi", nil)
			req.AddCookie(&http.Cookie{Name: LangCookieName, Value: "zh-hans"})
			req.Header.Set("Accept-Language", "en")

			Convey("Then the query should win over the cookie", func() {
				So(r.Resolve(req), ShouldEqual, Vietnamese)
			})
		})

		Convey("When only the cookie is set", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: LangCookieName, Value: "zh-hans"})

			Convey("Then the cookie should be used", func() {
				So(r.Resolve(req), ShouldEqual, SimplifiedChinese)
			})
		})

		Convey("When nothing matches", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Accept-Language", "de-DE")

			Convey("Then the default should be used", func() {
				So(r.Resolve(req), ShouldEqual, English)
				So(r.Resolve(nil), ShouldEqual, English)
			})
		})

		Convey("When the default is unsupported", func() {
			So(NewResolver("klingon").Default(), ShouldEqual, English)
			So(NewResolver("vi").Default(), ShouldEqual, Vietnamese)
		})
	})
}

func TestRedirect(t *testing.T) {
	Convey("Given the locale redirect middleware", t, func() {
		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
		h := NewResolver("en").Redirect(next)

		Convey("When the path has no locale", func() {
			req := httptest.NewRequest(http.MethodGet, "/admin/dashboard?tab=events", nil)
			req.Header.Set("Accept-Language", "vi-VN")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it should redirect to the negotiated locale", func() {
				So(w.Code, ShouldEqual, http.StatusTemporaryRedirect)
				So(w.Header().Get("Location"), ShouldEqual, "/vi/admin/dashboard?tab=events")
			})
		})

		Convey("When the path already has a locale", func() {
			req := httptest.NewRequest(http.MethodGet, "/zh-hant/sign-in", nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it should pass through", func() {
				So(w.Code, ShouldEqual, http.StatusTeapot)
			})
		})
	})
}

func TestCatalogAndFormat(t *testing.T) {
	Convey("Given the message catalog", t, func() {
		Convey("Then labels should be translated per locale", func() {
			So(English.T(MsgSignIn), ShouldEqual, "Sign in")
			So(Vietnamese.T(MsgSignIn), ShouldEqual, "Đăng nhập")
			So(SimplifiedChinese.T(MsgSignIn), ShouldEqual, "登录")
			So(TraditionalChinese.T(MsgSignIn), ShouldEqual, "登入")
		})

		Convey("Then percent labels should keep a literal percent sign", func() {
			So(English.T(MsgFinalPercent), ShouldEqual, "Final %")
			So(SimplifiedChinese.T(MsgFinalPercent), ShouldEqual, "最终 %")
		})

		Convey("Then USD amounts should be rounded to cents", func() {
			So(Cents(1320.0000000000002).String(), ShouldEqual, "1320")
			So(Cents(2.675).StringFixed(2), ShouldEqual, "2.68")
			So(English.USD(1320.0000000000002), ShouldEqual, "1,320.00")
			So(English.USD(8), ShouldEqual, "8.00")
		})

		Convey("Then numbers should be grouped", func() {
			So(English.Number(4800), ShouldEqual, "4,800")
			So(English.Number(2.5), ShouldEqual, "2.5")
		})

		Convey("Then values without a decimal form should render as zero", func() {
			So(Cents(math.Inf(1)).IsZero(), ShouldBeTrue)
			So(English.USD(math.Inf(-1)), ShouldEqual, "0.00")
			So(English.Number(math.NaN()), ShouldEqual, "0")
		})
	})
}
