package http_api

import (
	"fmt"
	"net/http"

	. "github.com/labstack/echo/v4"

	cs "github.com/hoepeyemi/fusee-sub001/node/api/http_api/context_service"
)

func contextServiceMiddleware(next HandlerFunc) HandlerFunc {
	return func(ctx Context) error {
		return next(cs.New(ctx))
	}
}

// Custom error handler
func customHTTPErrorHandler(err error, c Context) {
	code := http.StatusInternalServerError

	csError, ok := err.(*cs.CSErrorResp)
	if !ok {
		if he, ok := err.(*HTTPError); ok {
			code = he.Code
			csError = &cs.CSErrorResp{
				ErrorMessage: fmt.Sprintf("%s", he.Message),
			}
		} else {
			csError = &cs.CSErrorResp{
				ErrorMessage: http.StatusText(http.StatusInternalServerError),
			}
		}
	}

	// Send response
	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, csError)
		}
		if err != nil {
			c.Logger().Error(err)
		}
	}
}
