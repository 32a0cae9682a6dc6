package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/okian/presale/internal/adapters/http/auth"
	"github.com/okian/presale/internal/adapters/http/i18n"
	"github.com/okian/presale/internal/domain/bonus"
	"github.com/okian/presale/internal/domain/ledger"
	"github.com/okian/presale/internal/domain/presale"
	"github.com/okian/presale/internal/domain/types"
	"github.com/okian/presale/pkg/logger"
	"github.com/okian/presale/pkg/metrics"
)

// Dependencies defines the service operations the dashboard needs.
type Dependencies interface {
	TokenPrice(ctx context.Context) float64
	SetTokenPrice(ctx context.Context, price float64) error
	Tables(ctx context.Context) []types.Table
	UpdateCell(ctx context.Context, c types.Category, field string, index int, raw string) (types.Table, error)
	AddPackage(ctx context.Context, c types.Category) (types.Table, error)
	RemovePackage(ctx context.Context, c types.Category, index int) (types.Table, error)
	Events(ctx context.Context) []bonus.Entry
	SetBonus(ctx context.Context, id int, percent float64) error
	PresaleEvents(ctx context.Context) []presale.Event
	AddPresaleEvent(ctx context.Context) presale.Event
	UpdatePresaleEvent(ctx context.Context, id int, patch presale.Patch) (presale.Event, error)
	DeletePresaleEvent(ctx context.Context, id int) error
}

const cellPrefix = "cell:"

func (h *Handler) handleSignInPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "sign_in.html", signInView{pageView: h.page(r, locale(r))})
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	l := locale(r)
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "sign_in.html", signInView{pageView: h.page(r, l)})
		return
	}
	identifier := strings.TrimSpace(r.PostForm.Get("identifier"))

	token, exp, err := h.auth.SignIn(identifier, r.PostForm.Get("password"))
	if err != nil {
		result := "error"
		if errors.Is(err, auth.ErrInvalidCredentials) {
			result = "invalid"
		}
		metrics.RecordSignIn(result)
		h.logger.Warn(r.Context(), "sign-in rejected",
			logger.String("identifier", identifier),
			logger.String("result", result),
		)
		v := signInView{pageView: h.page(r, l), Identifier: identifier}
		v.Error = l.T(i18n.MsgInvalidCredentials)
		h.render(w, r, http.StatusUnauthorized, "sign_in.html", v)
		return
	}

	metrics.RecordSignIn("success")
	if token != "" {
		h.auth.SetCookie(w, token, exp)
	}
	h.logger.Info(r.Context(), "admin signed in", logger.String("identifier", identifier))
	http.Redirect(w, r, pagePath(l, PathDashboard), http.StatusSeeOther)
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	h.auth.ClearCookie(w)
	http.Redirect(w, r, pagePath(locale(r), PathSignIn), http.StatusSeeOther)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, http.StatusOK, "")
}

func (h *Handler) renderDashboard(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	ctx := r.Context()
	l := locale(r)

	v := dashboardView{
		pageView:      h.page(r, l),
		TokenPrice:    h.deps.TokenPrice(ctx),
		PresaleEvents: h.deps.PresaleEvents(ctx),
	}
	v.Error = errMsg
	for _, t := range h.deps.Tables(ctx) {
		v.Tables = append(v.Tables, newTableView(l, t))
	}
	for _, e := range h.deps.Events(ctx) {
		v.Events = append(v.Events, eventView{Entry: e, TypeLabel: categoryLabel(l, e.Type)})
	}
	h.render(w, r, status, "dashboard.html", v)
}

func (h *Handler) handleTokenPrice(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context) error {
		raw := strings.TrimSpace(r.PostForm.Get("tbcPrice"))
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%w: tbcPrice %q", ErrForm, raw)
		}
		return h.deps.SetTokenPrice(ctx, price)
	})
}

// handleCells applies every edited base input of one table. Inputs equal to
// the stored value are skipped.
func (h *Handler) handleCells(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context) error {
		c, err := types.ParseCategory(chi.URLParam(r, "category"))
		if err != nil {
			return err
		}
		current := map[string][]float64{}
		for _, t := range h.deps.Tables(ctx) {
			if t.Category == c {
				current = t.Inputs
			}
		}

		keys := make([]string, 0, len(r.PostForm))
		for k := range r.PostForm {
			if strings.HasPrefix(k, cellPrefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)

		for _, k := range keys {
			field, idx, ok := strings.Cut(strings.TrimPrefix(k, cellPrefix), ":")
			index, err := strconv.Atoi(idx)
			if !ok || err != nil {
				return fmt.Errorf("%w: cell %q", ErrForm, k)
			}
			raw := r.PostForm.Get(k)
			if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
				if col := current[field]; index < len(col) && col[index] == v {
					continue
				}
			}
			if _, err := h.deps.UpdateCell(ctx, c, field, index, raw); err != nil {
				return err
			}
		}
		return nil
	})
}

func (h *Handler) handleAddPackage(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context) error {
		c, err := types.ParseCategory(chi.URLParam(r, "category"))
		if err != nil {
			return err
		}
		_, err = h.deps.AddPackage(ctx, c)
		return err
	})
}

func (h *Handler) handleRemovePackage(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context) error {
		c, err := types.ParseCategory(chi.URLParam(r, "category"))
		if err != nil {
			return err
		}
		_, err = h.deps.RemovePackage(ctx, c, -1)
		return err
	})
}

func (h *Handler) handleBonus(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context) error {
		id, err := formID(r)
		if err != nil {
			return err
		}
		raw := strings.TrimSpace(r.PostForm.Get("percent"))
		pct, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%w: percent %q", ErrForm, raw)
		}
		return h.deps.SetBonus(ctx, id, pct)
	})
}

func (h *Handler) handleAddPresaleEvent(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context) error {
		h.deps.AddPresaleEvent(ctx)
		return nil
	})
}

func (h *Handler) handleUpdatePresaleEvent(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context) error {
		id, err := formID(r)
		if err != nil {
			return err
		}
		_, err = h.deps.UpdatePresaleEvent(ctx, id, presale.Patch{
			LockedTBCFrom:    r.PostForm.Get("lockedTbcFrom"),
			LockedTBCTo:      r.PostForm.Get("lockedTbcTo"),
			LockedRewardFrom: r.PostForm.Get("lockedRewardFrom"),
			LockedRewardTo:   r.PostForm.Get("lockedRewardTo"),
		})
		return err
	})
}

func (h *Handler) handleDeletePresaleEvent(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context) error {
		id, err := formID(r)
		if err != nil {
			return err
		}
		return h.deps.DeletePresaleEvent(ctx, id)
	})
}

// mutate parses the form, runs fn and redirects back to the dashboard. A
// failure re-renders the dashboard with the error.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, fn func(context.Context) error) {
	err := r.ParseForm()
	if err == nil {
		err = fn(r.Context())
	}
	if err != nil {
		h.logger.Warn(r.Context(), "dashboard action failed",
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		h.renderDashboard(w, r, statusFor(err), err.Error())
		return
	}
	http.Redirect(w, r, pagePath(locale(r), PathDashboard), http.StatusSeeOther)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrUnknownCategory),
		errors.Is(err, bonus.ErrNotFound),
		errors.Is(err, presale.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForm),
		errors.Is(err, ledger.ErrUnknownField),
		errors.Is(err, types.ErrInvalidPrice),
		errors.Is(err, presale.ErrInvalidDate):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func formID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q", ErrForm, raw)
	}
	return id, nil
}

// render executes page into a buffer so a template failure still yields a
// clean 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		metrics.RecordErrorByComponent("site", "render")
		h.logger.Error(r.Context(), "failed to render page",
			logger.String("page", page),
			logger.Error(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
