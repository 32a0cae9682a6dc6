package api_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/presale/internal/adapters/http/api"
	"github.com/okian/presale/internal/adapters/http/auth"
	service "github.com/okian/presale/internal/app"
	"github.com/okian/presale/internal/domain/bonus"
	"github.com/okian/presale/internal/domain/presale"
	"github.com/okian/presale/internal/domain/types"
	"github.com/okian/presale/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func newTestServer(opts ...api.Option) (*service.Service, http.Handler) {
	svc := service.New(service.WithClock(func() time.Time {
		return time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	}))
	_ = svc.Start(context.Background())
	return svc, api.NewServer(svc, opts...).Handler()
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(rec *httptest.ResponseRecorder) map[string]string {
	var out map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return out
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given the API server", t, func() {
		Convey("When the service has not started", func() {
			svc := service.New()
			h := api.NewServer(svc).Handler()
			rec := do(h, http.MethodGet, "/healthz", "")

			Convey("Then healthz should answer 503", func() {
				So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(rec.Body.String(), ShouldContainSubstring, `"status":"starting"`)
			})
		})

		Convey("When the service is ready", func() {
			_, h := newTestServer()

			Convey("Then healthz should answer ok", func() {
				rec := do(h, http.MethodGet, "/healthz", "")
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"ready":true`)
			})

			Convey("Then stats should report tiers per category", func() {
				rec := do(h, http.MethodGet, "/stats", "")
				So(rec.Code, ShouldEqual, http.StatusOK)
				var stats map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &stats), ShouldBeNil)
				So(stats["started"], ShouldEqual, true)
				tiers := stats["tiers"].(map[string]any)
				So(tiers["buyerCommission"], ShouldEqual, 5)
			})

			Convey("Then metrics should be exposed", func() {
				_ = do(h, http.MethodGet, "/healthz", "")
				rec := do(h, http.MethodGet, "/metrics", "")
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "http_requests_total")
			})
		})
	})
}

func TestTokenPriceRoutes(t *testing.T) {
	Convey("Given the API server", t, func() {
		svc, h := newTestServer()

		Convey("When reading the price", func() {
			rec := do(h, http.MethodGet, "/api/token-price", "")

			Convey("Then the seeded price should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"tbcPrice":4`)
			})
		})

		Convey("When setting a new price", func() {
			rec := do(h, http.MethodPut, "/api/token-price", `{"tbcPrice":5}`)

			Convey("Then every table should use it", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(svc.TokenPrice(context.Background()), ShouldEqual, 5)
				t, _ := svc.Table(context.Background(), types.BuyerVoucher)
				So(t.VoucherRows[0].ValueUSD, ShouldEqual, 1500)
			})
		})

		Convey("When the price is negative", func() {
			rec := do(h, http.MethodPut, "/api/token-price", `{"tbcPrice":-1}`)

			Convey("Then the request should be rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(rec)["code"], ShouldEqual, "bad_request")
				So(svc.TokenPrice(context.Background()), ShouldEqual, 4)
			})
		})

		Convey("When the body is missing the price", func() {
			rec := do(h, http.MethodPut, "/api/token-price", `{}`)

			Convey("Then the request should be rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestTableRoutes(t *testing.T) {
	Convey("Given the API server", t, func() {
		_, h := newTestServer()

		Convey("When listing tables", func() {
			rec := do(h, http.MethodGet, "/api/tables", "")
			var tables []types.Table
			So(json.Unmarshal(rec.Body.Bytes(), &tables), ShouldBeNil)

			Convey("Then every category should be present in order", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(len(tables), ShouldEqual, 3)
				So(tables[0].Category, ShouldEqual, types.BuyerCommission)
				So(tables[2].Category, ShouldEqual, types.AgencyVoucher)
			})
		})

		Convey("When reading an unknown category", func() {
			rec := do(h, http.MethodGet, "/api/tables/sellerVoucher", "")

			Convey("Then 404 should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(rec)["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When editing a cell with a string value", func() {
			rec := do(h, http.MethodPatch, "/api/tables/buyerCommission/cells",
				`{"field":"buyerCommissionAmount","index":0,"value":"250"}`)
			var table types.Table
			So(json.Unmarshal(rec.Body.Bytes(), &table), ShouldBeNil)

			Convey("Then the derived row should follow", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(table.Inputs["buyerCommissionAmount"][0], ShouldEqual, 250)
				So(table.CommissionRows[0].ValueUSD, ShouldEqual, 1000)
			})
		})

		Convey("When editing a cell with a numeric value", func() {
			rec := do(h, http.MethodPatch, "/api/tables/buyerVoucher/cells",
				`{"field":"voucherPercent","index":1,"value":7.5}`)
			var table types.Table
			So(json.Unmarshal(rec.Body.Bytes(), &table), ShouldBeNil)

			Convey("Then the number should be stored", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(table.VoucherRows[1].Percent, ShouldEqual, 7.5)
			})
		})

		Convey("When editing an unknown field", func() {
			rec := do(h, http.MethodPatch, "/api/tables/buyerVoucher/cells",
				`{"field":"buyerCommissionAmount","index":0,"value":"1"}`)

			Convey("Then 400 should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the cell index is missing", func() {
			rec := do(h, http.MethodPatch, "/api/tables/buyerVoucher/cells",
				`{"field":"voucherPercent","value":"1"}`)

			Convey("Then 400 should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When adding and removing packages", func() {
			added := do(h, http.MethodPost, "/api/tables/agencyVoucher/packages", "")
			var table types.Table
			So(json.Unmarshal(added.Body.Bytes(), &table), ShouldBeNil)
			So(table.Len(), ShouldEqual, 6)

			removed := do(h, http.MethodDelete, "/api/tables/agencyVoucher/packages?index=0", "")
			So(json.Unmarshal(removed.Body.Bytes(), &table), ShouldBeNil)

			Convey("Then the removed tier should be gone and later tiers shift", func() {
				So(removed.Code, ShouldEqual, http.StatusOK)
				So(table.Len(), ShouldEqual, 5)
				So(table.VoucherRows[0].AmountTBC, ShouldEqual, 600)
				So(table.VoucherRows[0].Package, ShouldEqual, 1)
			})

			Convey("And removing without an index should drop the last tier", func() {
				rec := do(h, http.MethodDelete, "/api/tables/agencyVoucher/packages", "")
				So(json.Unmarshal(rec.Body.Bytes(), &table), ShouldBeNil)
				So(table.Len(), ShouldEqual, 4)
				So(table.VoucherRows[3].AmountTBC, ShouldEqual, 4800)
			})
		})

		Convey("When the remove index is malformed", func() {
			rec := do(h, http.MethodDelete, "/api/tables/agencyVoucher/packages?index=abc", "")

			Convey("Then 400 should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When resizing the tiers", func() {
			rec := do(h, http.MethodPut, "/api/tables/buyerCommission/tiers", `{"count":2}`)
			var table types.Table
			So(json.Unmarshal(rec.Body.Bytes(), &table), ShouldBeNil)

			Convey("Then the table should have the requested length", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(table.Len(), ShouldEqual, 2)
			})

			Convey("And a negative count should be rejected", func() {
				rec := do(h, http.MethodPut, "/api/tables/buyerCommission/tiers", `{"count":-1}`)
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When exporting a voucher table", func() {
			rec := do(h, http.MethodGet, "/api/tables/buyerVoucher/export.csv", "")
			records, err := csv.NewReader(rec.Body).ReadAll()

			Convey("Then a header and one record per tier should be written", func() {
				So(err, ShouldBeNil)
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldStartWith, "text/csv")
				So(len(records), ShouldEqual, 6)
				So(records[0][0], ShouldEqual, "package")
				So(records[1][:4], ShouldResemble, []string{"1", "300", "1200.00", "1"})
			})
		})

		Convey("When exporting a commission table", func() {
			rec := do(h, http.MethodGet, "/api/tables/buyerCommission/export.csv", "")
			records, err := csv.NewReader(rec.Body).ReadAll()

			Convey("Then every column should be present", func() {
				So(err, ShouldBeNil)
				So(len(records[0]), ShouldEqual, 15)
				So(records[2][:3], ShouldResemble, []string{"2", "200", "800.00"})
			})
		})
	})
}

type nanStats struct{}

func (nanStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"tbcPrice": math.NaN()}
}

func TestOverflowingInputs(t *testing.T) {
	Convey("Given the API server", t, func() {
		_, h := newTestServer()

		Convey("When an amount cell overflows the USD columns", func() {
			rec := do(h, http.MethodPatch, "/api/tables/buyerCommission/cells",
				`{"field":"buyerCommissionAmount","index":2,"value":"1e308"}`)
			var table types.Table
			So(json.Unmarshal(rec.Body.Bytes(), &table), ShouldBeNil)

			Convey("Then the table should still be served with 0 in those cells", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(table.CommissionRows[2].AmountTBC, ShouldEqual, 1e308)
				So(table.CommissionRows[2].ValueUSD, ShouldEqual, 0)
				So(table.CommissionRows[2].StandardValueUSD, ShouldEqual, 0)
				So(table.CommissionRows[1].ValueUSD, ShouldEqual, 800)
			})

			Convey("Then every table should still list", func() {
				rec := do(h, http.MethodGet, "/api/tables", "")
				var tables []types.Table
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(json.Unmarshal(rec.Body.Bytes(), &tables), ShouldBeNil)
				So(len(tables), ShouldEqual, 3)
			})

			Convey("Then the CSV export should write 0.00", func() {
				rec := do(h, http.MethodGet, "/api/tables/buyerCommission/export.csv", "")
				records, err := csv.NewReader(rec.Body).ReadAll()
				So(err, ShouldBeNil)
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(records[3][0], ShouldEqual, "3")
				So(records[3][2], ShouldEqual, "0.00")
			})
		})

		Convey("When the token price is huge", func() {
			rec := do(h, http.MethodPut, "/api/token-price", `{"tbcPrice":1e308}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			rec = do(h, http.MethodGet, "/api/tables/buyerVoucher", "")
			var table types.Table
			So(json.Unmarshal(rec.Body.Bytes(), &table), ShouldBeNil)

			Convey("Then the USD cells should be 0", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(table.VoucherRows[0].ValueUSD, ShouldEqual, 0)
				So(table.VoucherRows[0].FinalValueUSD, ShouldEqual, 0)
			})
		})

		Convey("When the bonus is huge", func() {
			rec := do(h, http.MethodPut, "/api/events/2", `{"percent":1.7976931348623157e308}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			rec = do(h, http.MethodGet, "/api/tables/buyerVoucher", "")
			var table types.Table
			So(json.Unmarshal(rec.Body.Bytes(), &table), ShouldBeNil)

			Convey("Then the final USD cells should be 0", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(table.VoucherRows[0].ValueUSD, ShouldEqual, 1200)
				So(table.VoucherRows[0].FinalValueUSD, ShouldEqual, 0)
			})

			Convey("Then the CSV export should still succeed", func() {
				rec := do(h, http.MethodGet, "/api/tables/buyerVoucher/export.csv", "")
				records, err := csv.NewReader(rec.Body).ReadAll()
				So(err, ShouldBeNil)
				So(records[1][5], ShouldEqual, "0.00")
			})
		})

		Convey("When a response cannot be encoded", func() {
			rec := httptest.NewRecorder()
			api.NewStatsHandler(nanStats{}).HandleStats(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

			Convey("Then 500 should be returned with an error body", func() {
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)
				So(decodeError(rec)["code"], ShouldEqual, "internal_error")
			})
		})
	})
}

func TestEventRoutes(t *testing.T) {
	Convey("Given the API server", t, func() {
		svc, h := newTestServer()

		Convey("When listing bonus events", func() {
			rec := do(h, http.MethodGet, "/api/events", "")
			var entries []bonus.Entry
			So(json.Unmarshal(rec.Body.Bytes(), &entries), ShouldBeNil)

			Convey("Then the seeded entries should be returned", func() {
				So(len(entries), ShouldEqual, 3)
				So(entries[1].Type, ShouldEqual, types.BuyerVoucher)
			})
		})

		Convey("When adding an event", func() {
			rec := do(h, http.MethodPost, "/api/events", `{"name":"Summer","type":"buyerVoucher","percent":10}`)
			var e bonus.Entry
			So(json.Unmarshal(rec.Body.Bytes(), &e), ShouldBeNil)

			Convey("Then it should be created with the next id", func() {
				So(rec.Code, ShouldEqual, http.StatusCreated)
				So(e.ID, ShouldEqual, 4)
				So(e.Name, ShouldEqual, "Summer")
			})
		})

		Convey("When adding an event of an unknown type", func() {
			rec := do(h, http.MethodPost, "/api/events", `{"name":"X","type":"nope","percent":1}`)

			Convey("Then 400 should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When setting the bonus of an entry", func() {
			rec := do(h, http.MethodPut, "/api/events/2", `{"percent":10}`)

			Convey("Then the voucher table should apply it", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				t, _ := svc.Table(context.Background(), types.BuyerVoucher)
				So(t.BonusPercent, ShouldEqual, 10)
			})
		})

		Convey("When setting a missing entry", func() {
			rec := do(h, http.MethodPut, "/api/events/99", `{"percent":10}`)

			Convey("Then 404 should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the id is not a number", func() {
			rec := do(h, http.MethodDelete, "/api/events/abc", "")

			Convey("Then 400 should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When deleting an entry", func() {
			rec := do(h, http.MethodDelete, "/api/events/1", "")

			Convey("Then it should be gone", func() {
				So(rec.Code, ShouldEqual, http.StatusNoContent)
				So(len(svc.Events(context.Background())), ShouldEqual, 2)
			})
		})
	})
}

func TestPresaleEventRoutes(t *testing.T) {
	Convey("Given the API server", t, func() {
		svc, h := newTestServer()

		Convey("When adding a lock period", func() {
			rec := do(h, http.MethodPost, "/api/presale-events", "")
			var e presale.Event
			So(json.Unmarshal(rec.Body.Bytes(), &e), ShouldBeNil)

			Convey("Then it should be dated today", func() {
				So(rec.Code, ShouldEqual, http.StatusCreated)
				So(e.ID, ShouldEqual, 5)
				So(e.LockedTBCFrom, ShouldEqual, "2025-03-09")
			})
		})

		Convey("When updating a lock period", func() {
			rec := do(h, http.MethodPatch, "/api/presale-events/0", `{"lockedRewardTo":"2025-12-31"}`)
			var e presale.Event
			So(json.Unmarshal(rec.Body.Bytes(), &e), ShouldBeNil)

			Convey("Then only the given field should change", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(e.LockedRewardTo, ShouldEqual, "2025-12-31")
				So(e.LockedTBCFrom, ShouldEqual, "2024-01-15")
			})
		})

		Convey("When the date is malformed", func() {
			rec := do(h, http.MethodPatch, "/api/presale-events/0", `{"lockedTbcTo":"31/12/2025"}`)

			Convey("Then 400 should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the body has unknown fields", func() {
			rec := do(h, http.MethodPatch, "/api/presale-events/0", `{"id":3}`)

			Convey("Then 400 should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When deleting a missing period", func() {
			rec := do(h, http.MethodDelete, "/api/presale-events/42", "")

			Convey("Then 404 should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
				So(len(svc.PresaleEvents(context.Background())), ShouldEqual, 5)
			})
		})
	})
}

func TestAuthAndCORS(t *testing.T) {
	Convey("Given an API server guarded by auth", t, func() {
		a, err := auth.New("test-secret", auth.WithAdmin("admin", "unused"))
		So(err, ShouldBeNil)
		_, h := newTestServer(api.WithAuthenticator(a), api.WithCORSOrigins("https://admin.presale.io"))

		Convey("When calling without a session", func() {
			rec := do(h, http.MethodGet, "/api/tables", "")

			Convey("Then 401 should be returned as JSON", func() {
				So(rec.Code, ShouldEqual, http.StatusUnauthorized)
				So(decodeError(rec)["code"], ShouldEqual, "unauthorized")
				So(rec.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
			})
		})

		Convey("When calling with a session cookie", func() {
			token, _, err := a.Issue("admin")
			So(err, ShouldBeNil)
			req := httptest.NewRequest(http.MethodGet, "/api/tables", nil)
			req.AddCookie(&http.Cookie{Name: a.CookieName(), Value: token})
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			Convey("Then the request should pass", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When health is probed", func() {
			rec := do(h, http.MethodGet, "/healthz", "")

			Convey("Then no session should be needed", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When a browser sends a preflight from an allowed origin", func() {
			req := httptest.NewRequest(http.MethodOptions, "/api/tables", nil)
			req.Header.Set("Origin", "https://admin.presale.io")
			req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			Convey("Then the origin should be echoed", func() {
				So(rec.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "https://admin.presale.io")
			})
		})
	})
}
