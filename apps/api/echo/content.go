package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pacclub/pacsite/core"
	"github.com/pacclub/pacsite/core/club"
	"github.com/pacclub/pacsite/core/content"
)

type contentApi struct {
	svc    *content.Service
	roster *club.Roster
}

func registerContentAPI(g *echo.Group, svc *content.Service, roster *club.Roster) {
	api := contentApi{svc: svc, roster: roster}

	for _, kind := range content.Kinds() {
		g.GET("/"+string(kind), api.listHandler(kind))
	}
	g.GET("/teams", api.teams)
}

// Handlers

func (api *contentApi) listHandler(kind content.Kind) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var opts content.ListOptions
		if raw := ctx.QueryParam("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return core.NewValidationError(nil, core.FieldError{Field: "limit", Error: "must be a non-negative integer"})
			}
			opts.Limit = n
		}
		opts.Search = core.CleanString(ctx.QueryParam("search"))

		recs, err := api.svc.List(ctx.Request().Context(), kind, opts)
		if err != nil {
			return errors.Wrapf(err, "listing %s", kind)
		}

		resolved := make([]content.Record, len(recs))
		for i, rec := range recs {
			resolved[i] = rec.Resolve(core.Conf.Backend.BaseURL)
		}
		return ctx.JSON(http.StatusOK, echo.Map{kind.ListKey(): resolved})
	}
}

func (api *contentApi) teams(ctx echo.Context) error {
	if api.roster == nil {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, api.roster)
}
