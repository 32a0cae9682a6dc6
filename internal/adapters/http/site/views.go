package site

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/okian/presale/internal/adapters/http/i18n"
	"github.com/okian/presale/internal/domain/bonus"
	"github.com/okian/presale/internal/domain/presale"
	"github.com/okian/presale/internal/domain/types"
)

var funcs = template.FuncMap{
	"raw": func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
}

type localeLink struct {
	Label  string
	Href   string
	Active bool
}

type pageView struct {
	L           i18n.Locale
	Locales     []localeLink
	Error       string
	AuthEnabled bool
}

type signInView struct {
	pageView
	Identifier string
}

type cellView struct {
	Text     string
	Field    string
	Index    int
	Value    string
	Editable bool
}

type tableView struct {
	Category     types.Category
	Title        string
	BonusPercent string
	Headers      []string
	Rows         [][]cellView
}

type eventView struct {
	bonus.Entry
	TypeLabel string
}

type dashboardView struct {
	pageView
	TokenPrice    float64
	Tables        []tableView
	Events        []eventView
	PresaleEvents []presale.Event
}

func (h *Handler) page(r *http.Request, l i18n.Locale) pageView {
	links := make([]localeLink, 0, len(i18n.Locales()))
	_, rest, _ := i18n.Split(r.URL.Path)
	if r.Method != http.MethodGet {
		rest = PathDashboard
	}
	for _, code := range i18n.Locales() {
		links = append(links, localeLink{Label: code.Label(), Href: pagePath(code, rest), Active: code == l})
	}
	return pageView{L: l, Locales: links, AuthEnabled: h.auth.Enabled()}
}

func categoryLabel(l i18n.Locale, c types.Category) string {
	switch c {
	case types.BuyerCommission:
		return l.T(i18n.MsgBuyerCommission)
	case types.BuyerVoucher:
		return l.T(i18n.MsgBuyerVoucher)
	case types.AgencyVoucher:
		return l.T(i18n.MsgAgencyVoucher)
	}
	return string(c)
}

func newTableView(l i18n.Locale, t types.Table) tableView {
	v := tableView{
		Category:     t.Category,
		Title:        categoryLabel(l, t.Category),
		BonusPercent: l.Number(t.BonusPercent),
	}
	text := func(s string) cellView { return cellView{Text: s} }
	input := func(field string, i int) cellView {
		var val float64
		if col := t.Inputs[field]; i < len(col) {
			val = col[i]
		}
		return cellView{Text: l.Number(val), Field: field, Index: i, Value: strconv.FormatFloat(val, 'f', -1, 64), Editable: true}
	}

	if t.Kind == types.KindCommission {
		v.Headers = translate(l, i18n.MsgPackage, i18n.MsgAmountTBC, i18n.MsgValueUSD,
			i18n.MsgStandardPercent, i18n.MsgStandardTBC, i18n.MsgStandardUSD,
			i18n.MsgDiscountPercent, i18n.MsgDiscountTBC, i18n.MsgDiscountUSD, i18n.MsgDiscountPerPackage,
			i18n.MsgExtraPercent, i18n.MsgTotalPercent, i18n.MsgTotalUSD, i18n.MsgFinalPercent, i18n.MsgFinalUSD)
		for i, row := range t.CommissionRows {
			v.Rows = append(v.Rows, []cellView{
				text(strconv.Itoa(row.Package)),
				input(types.FieldBuyerCommissionAmount, i),
				text(l.USD(row.ValueUSD)),
				input(types.FieldBuyerStandardCommissionPercent, i),
				text(l.Number(row.StandardAmountTBC)),
				text(l.USD(row.StandardValueUSD)),
				input(types.FieldPackageDiscountPercent, i),
				text(l.Number(row.DiscountAmountTBC)),
				text(l.USD(row.DiscountValueUSD)),
				text(l.USD(row.DiscountValuePerPackage)),
				text(l.Number(row.ExtraPercent)),
				text(l.Number(row.TotalPercent)),
				text(l.USD(row.TotalValueUSD)),
				text(l.Number(row.FinalPercent)),
				text(l.USD(row.FinalValueUSD)),
			})
		}
		return v
	}

	v.Headers = translate(l, i18n.MsgPackage, i18n.MsgAmountTBC, i18n.MsgValueUSD,
		i18n.MsgVoucherPercent, i18n.MsgFinalPercent, i18n.MsgFinalUSD)
	for i, row := range t.VoucherRows {
		v.Rows = append(v.Rows, []cellView{
			text(strconv.Itoa(row.Package)),
			input(types.FieldVoucherAmount, i),
			text(l.USD(row.ValueUSD)),
			input(types.FieldVoucherPercent, i),
			text(l.Number(row.FinalPercent)),
			text(l.USD(row.FinalValueUSD)),
		})
	}
	return v
}

func translate(l i18n.Locale, keys ...string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = l.T(k)
	}
	return out
}
