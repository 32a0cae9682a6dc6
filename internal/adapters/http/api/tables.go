package api

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/okian/presale/internal/domain/types"
	"github.com/shopspring/decimal"
)

// TableDependencies defines the service operations behind the table routes.
type TableDependencies interface {
	TokenPrice(ctx context.Context) float64
	SetTokenPrice(ctx context.Context, price float64) error
	Table(ctx context.Context, c types.Category) (types.Table, error)
	Tables(ctx context.Context) []types.Table
	UpdateCell(ctx context.Context, c types.Category, field string, index int, raw string) (types.Table, error)
	AddPackage(ctx context.Context, c types.Category) (types.Table, error)
	RemovePackage(ctx context.Context, c types.Category, index int) (types.Table, error)
	ResizeTiers(ctx context.Context, c types.Category, count int) (types.Table, error)
}

// TablesHandler serves the token price and the package tables.
type TablesHandler struct {
	deps TableDependencies
}

// NewTablesHandler creates a new tables handler.
func NewTablesHandler(deps TableDependencies) *TablesHandler {
	return &TablesHandler{deps: deps}
}

type tokenPriceBody struct {
	TokenPrice *float64 `json:"tbcPrice"`
}

type cellRequest struct {
	Field string          `json:"field"`
	Index *int            `json:"index"`
	Value json.RawMessage `json:"value"`
}

// raw returns the edited value as typed. Strings are unquoted and numbers
// keep their literal text; anything else yields "".
func (c cellRequest) raw() string {
	var s string
	if err := json.Unmarshal(c.Value, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(c.Value, &n); err == nil {
		return n.String()
	}
	return ""
}

type resizeRequest struct {
	Count *int `json:"count"`
}

// HandleGetTokenPrice handles GET /api/token-price requests.
func (h *TablesHandler) HandleGetTokenPrice(w http.ResponseWriter, r *http.Request) {
	price := h.deps.TokenPrice(r.Context())
	writeJSON(w, http.StatusOK, tokenPriceBody{TokenPrice: &price})
}

// HandleSetTokenPrice handles PUT /api/token-price requests.
func (h *TablesHandler) HandleSetTokenPrice(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_token_price"
	var req tokenPriceBody
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, badRequest(op, err))
		return
	}
	if req.TokenPrice == nil {
		writeDomainError(w, badRequest(op, errors.New("tbcPrice is required")))
		return
	}
	if err := h.deps.SetTokenPrice(r.Context(), *req.TokenPrice); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// HandleListTables handles GET /api/tables requests.
func (h *TablesHandler) HandleListTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Tables(r.Context()))
}

// HandleGetTable handles GET /api/tables/{category} requests.
func (h *TablesHandler) HandleGetTable(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(ctx context.Context, c types.Category) (types.Table, error) {
		return h.deps.Table(ctx, c)
	})
}

// HandleUpdateCell handles PATCH /api/tables/{category}/cells requests.
func (h *TablesHandler) HandleUpdateCell(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_cell"
	var req cellRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, badRequest(op, err))
		return
	}
	if req.Field == "" || req.Index == nil {
		writeDomainError(w, badRequest(op, errors.New("field and index are required")))
		return
	}
	h.respond(w, r, func(ctx context.Context, c types.Category) (types.Table, error) {
		return h.deps.UpdateCell(ctx, c, req.Field, *req.Index, req.raw())
	})
}

// HandleAddPackage handles POST /api/tables/{category}/packages requests.
func (h *TablesHandler) HandleAddPackage(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.deps.AddPackage)
}

// HandleRemovePackage handles DELETE /api/tables/{category}/packages
// requests. Without an index query parameter the last tier is removed.
func (h *TablesHandler) HandleRemovePackage(w http.ResponseWriter, r *http.Request) {
	const op = "api.remove_package"
	index := -1
	if q := r.URL.Query().Get("index"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			writeDomainError(w, badRequest(op, fmt.Errorf("index %q must be a non-negative integer", q)))
			return
		}
		index = n
	}
	h.respond(w, r, func(ctx context.Context, c types.Category) (types.Table, error) {
		return h.deps.RemovePackage(ctx, c, index)
	})
}

// HandleResizeTiers handles PUT /api/tables/{category}/tiers requests.
func (h *TablesHandler) HandleResizeTiers(w http.ResponseWriter, r *http.Request) {
	const op = "api.resize_tiers"
	var req resizeRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, badRequest(op, err))
		return
	}
	if req.Count == nil || *req.Count < 0 {
		writeDomainError(w, badRequest(op, errors.New("count must be a non-negative integer")))
		return
	}
	h.respond(w, r, func(ctx context.Context, c types.Category) (types.Table, error) {
		return h.deps.ResizeTiers(ctx, c, *req.Count)
	})
}

// HandleExportCSV handles GET /api/tables/{category}/export.csv requests.
// USD columns are written with two decimals, percents and TBC amounts as
// computed.
func (h *TablesHandler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	c, err := types.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	t, err := h.deps.Table(r.Context(), c)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(c)+".csv"))
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	for _, rec := range tableRecords(t) {
		_ = cw.Write(rec)
	}
	cw.Flush()
}

func tableRecords(t types.Table) [][]string {
	num := func(v float64) string { return strconv.FormatFloat(finite(v), 'f', -1, 64) }
	usd := func(v float64) string { return decimal.NewFromFloat(finite(v)).StringFixed(2) }

	if t.Kind == types.KindCommission {
		out := [][]string{{
			"package", "amountTBC", "valueUSD", "standardPercent", "standardAmountTBC", "standardValueUSD",
			"discountPercent", "discountAmountTBC", "discountValueUSD", "discountValuePerPackage",
			"extraPercent", "totalPercent", "totalValueUSD", "finalPercent", "finalValueUSD",
		}}
		for _, row := range t.CommissionRows {
			out = append(out, []string{
				strconv.Itoa(row.Package), num(row.AmountTBC), usd(row.ValueUSD),
				num(row.StandardPercent), num(row.StandardAmountTBC), usd(row.StandardValueUSD),
				num(row.DiscountPercent), num(row.DiscountAmountTBC), usd(row.DiscountValueUSD), usd(row.DiscountValuePerPackage),
				num(row.ExtraPercent), num(row.TotalPercent), usd(row.TotalValueUSD),
				num(row.FinalPercent), usd(row.FinalValueUSD),
			})
		}
		return out
	}

	out := [][]string{{"package", "amountTBC", "valueUSD", "percent", "finalPercent", "finalValueUSD"}}
	for _, row := range t.VoucherRows {
		out = append(out, []string{
			strconv.Itoa(row.Package), num(row.AmountTBC), usd(row.ValueUSD),
			num(row.Percent), num(row.FinalPercent), usd(row.FinalValueUSD),
		})
	}
	return out
}

// respond resolves the category path parameter, runs fn and writes the
// resulting table.
func (h *TablesHandler) respond(w http.ResponseWriter, r *http.Request, fn func(context.Context, types.Category) (types.Table, error)) {
	c, err := types.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	t, err := fn(r.Context(), c)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// finite maps NaN and the infinities to 0, which decimal cannot represent.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
