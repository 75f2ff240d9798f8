package echoapi

import (
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edusuivi/hebdo/core"
)

// bindJSON decodes the request body into v, rejecting any field that is not
// part of the target schema.
func bindJSON(ctx echo.Context, v interface{}) error {
	req := ctx.Request()
	if req.ContentLength == 0 {
		return core.NewValidationError(errors.New("empty request body"))
	}
	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return core.NewValidationError(errors.Wrap(err, "invalid request body"))
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return core.NewValidationError(errors.New("invalid request body: unexpected trailing data"))
	}
	return nil
}
