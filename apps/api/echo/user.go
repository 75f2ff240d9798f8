package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edusuivi/hebdo/core/user"
)

type authApi struct {
	svc      user.Service
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc user.Service, validate *validator.Validate) {
	api := authApi{
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("/auth", jwt)
	ag.GET("/user", api.currentUser)
}

// Handlers

// currentUser returns the authenticated user, syncing the local projection
// with the identity claims first.
func (api *authApi) currentUser(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	data := claims.UpsertUser()
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Sync(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "syncing user")
	}

	return ctx.JSON(http.StatusOK, usr)
}
