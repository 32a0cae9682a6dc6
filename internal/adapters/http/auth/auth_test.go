package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smartystreets/goconvey/convey"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthenticator(now func() time.Time) *Authenticator {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	a, err := New("test-secret",
		WithAdmin("admin@presale.io", string(hash)),
		WithClock(now),
	)
	if err != nil {
		panic(err)
	}
	return a
}

func TestNew(t *testing.T) {
	convey.Convey("Given authenticator construction", t, func() {
		convey.Convey("When the secret is empty", func() {
			_, err := New("")

			convey.Convey("Then ErrNoSecret should be returned", func() {
				convey.So(errors.Is(err, ErrNoSecret), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When using defaults", func() {
			a, err := New("s", WithCookieName("  "), WithTTL(0))

			convey.Convey("Then the cookie should be named token and live seven days", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(a.CookieName(), convey.ShouldEqual, "token")
				convey.So(a.ttl, convey.ShouldEqual, 7*24*time.Hour)
				convey.So(a.Enabled(), convey.ShouldBeTrue)
			})
		})
	})
}

func TestSignIn(t *testing.T) {
	convey.Convey("Given an authenticator with one admin", t, func() {
		now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		a := newTestAuthenticator(func() time.Time { return now })

		convey.Convey("When signing in with the right credentials", func() {
			token, exp, err := a.SignIn(" admin@presale.io ", "hunter2")

			convey.Convey("Then a verifiable token should be issued", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(exp, convey.ShouldEqual, now.Add(7*24*time.Hour))
				claims, err := a.Verify(token)
				convey.So(err, convey.ShouldBeNil)
				convey.So(claims.Subject, convey.ShouldEqual, "admin@presale.io")
				convey.So(claims.ID, convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When the password is wrong", func() {
			_, _, err := a.SignIn("admin@presale.io", "hunter3")

			convey.Convey("Then ErrInvalidCredentials should be returned", func() {
				convey.So(errors.Is(err, ErrInvalidCredentials), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the identifier is wrong", func() {
			_, _, err := a.SignIn("root", "hunter2")

			convey.Convey("Then ErrInvalidCredentials should be returned", func() {
				convey.So(errors.Is(err, ErrInvalidCredentials), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When no admin is configured", func() {
			bare, _ := New("s")
			_, _, err := bare.SignIn("", "")

			convey.Convey("Then nobody should sign in", func() {
				convey.So(errors.Is(err, ErrInvalidCredentials), convey.ShouldBeTrue)
			})
		})
	})
}

func TestVerify(t *testing.T) {
	convey.Convey("Given an issued token", t, func() {
		now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		clock := now
		a := newTestAuthenticator(func() time.Time { return clock })
		token, _, err := a.Issue("admin@presale.io")
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When the session has expired", func() {
			clock = now.Add(8 * 24 * time.Hour)
			_, err := a.Verify(token)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, ErrInvalidToken), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When another secret verifies it", func() {
			other, _ := New("other-secret", WithClock(func() time.Time { return clock }))
			_, err := other.Verify(token)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, ErrInvalidToken), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the token uses the none algorithm", func() {
			unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{RegisteredClaims: jwt.RegisteredClaims{
				Issuer: issuer, ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			}})
			raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
			convey.So(err, convey.ShouldBeNil)
			_, err = a.Verify(raw)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, ErrInvalidToken), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the token is empty", func() {
			_, err := a.Verify("")

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, ErrInvalidToken), convey.ShouldBeTrue)
			})
		})
	})
}

func TestCookiesAndMiddleware(t *testing.T) {
	convey.Convey("Given an authenticator and a protected handler", t, func() {
		now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		a := newTestAuthenticator(func() time.Time { return now })
		protected := a.Require(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		convey.Convey("When setting the session cookie", func() {
			token, exp, _ := a.SignIn("admin@presale.io", "hunter2")
			w := httptest.NewRecorder()
			a.SetCookie(w, token, exp)
			cookie := w.Result().Cookies()[0]

			convey.Convey("Then it should be httpOnly with a seven day max age", func() {
				convey.So(cookie.Name, convey.ShouldEqual, "token")
				convey.So(cookie.HttpOnly, convey.ShouldBeTrue)
				convey.So(cookie.MaxAge, convey.ShouldEqual, 604800)
				convey.So(cookie.Path, convey.ShouldEqual, "/")
			})

			convey.Convey("And a request carrying it should pass", func() {
				req := httptest.NewRequest(http.MethodGet, "/api/tables", nil)
				req.AddCookie(cookie)
				rec := httptest.NewRecorder()
				protected.ServeHTTP(rec, req)
				convey.So(rec.Code, convey.ShouldEqual, http.StatusNoContent)
				convey.So(a.Authenticated(req), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the request has no cookie", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/tables", nil)
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			convey.Convey("Then deny should run", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusUnauthorized)
			})
		})

		convey.Convey("When clearing the cookie", func() {
			w := httptest.NewRecorder()
			a.ClearCookie(w)

			convey.Convey("Then it should expire immediately", func() {
				header := w.Header().Get("Set-Cookie")
				convey.So(header, convey.ShouldContainSubstring, "token=")
				convey.So(strings.Contains(header, "Max-Age=0"), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When auth is disabled", func() {
			d := Disabled()
			req := httptest.NewRequest(http.MethodGet, "/api/tables", nil)

			convey.Convey("Then every request should be authenticated", func() {
				convey.So(d.Enabled(), convey.ShouldBeFalse)
				convey.So(d.Authenticated(req), convey.ShouldBeTrue)
				token, _, err := d.SignIn("anyone", "anything")
				convey.So(err, convey.ShouldBeNil)
				convey.So(token, convey.ShouldBeEmpty)
			})
		})
	})
}

func TestHashPassword(t *testing.T) {
	convey.Convey("Given a password", t, func() {
		hash, err := HashPassword("correct horse")

		convey.Convey("Then the hash should verify with bcrypt", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct horse")), convey.ShouldBeNil)
		})
	})
}
