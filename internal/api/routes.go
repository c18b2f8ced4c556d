package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/masa-finance/birdnet/api/types"
	"github.com/masa-finance/birdnet/internal/engine"
	"github.com/masa-finance/birdnet/internal/scrape"
)

func registerRoutes(e *echo.Echo, eng *engine.Engine, previews *scrape.PreviewFetcher, threads *scrape.ThreadScraper) {
	e.POST("/api/op/:name", dispatch(eng))
	e.GET("/api/preview", preview(previews))
	e.GET("/api/conversation", conversation(threads))
}

// dispatch runs one logical operation and blocks until its single terminal
// outcome arrives. The response is the Outcome itself; remote failures are
// carried in its error field with a 200 status, transport-level surprises
// never leak as partial payloads.
func dispatch(eng *engine.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		args := types.Args{}
		if err := c.Bind(&args); err != nil {
			return c.JSON(http.StatusBadRequest, types.OutcomeError{Error: "invalid arguments payload"})
		}

		name := c.Param("name")
		if engine.Lookup(name) == nil {
			return c.JSON(http.StatusNotFound, types.OutcomeError{Error: "unknown operation: " + name})
		}

		outcome := <-eng.Dispatch(name, args)
		if !outcome.Success() {
			logrus.Debugf("operation %s failed: %s", name, outcome.Error)
		}
		return c.JSON(http.StatusOK, outcome)
	}
}

func preview(previews *scrape.PreviewFetcher) echo.HandlerFunc {
	return func(c echo.Context) error {
		address := c.QueryParam("url")
		if address == "" {
			return c.JSON(http.StatusBadRequest, types.OutcomeError{Error: "missing url parameter"})
		}

		linkPreview, err := previews.Fetch(address)
		if err != nil {
			return c.JSON(http.StatusBadGateway, types.OutcomeError{Error: err.Error()})
		}
		if linkPreview == nil {
			// Not an HTML document; nothing to preview.
			return c.NoContent(http.StatusNoContent)
		}
		return c.JSON(http.StatusOK, linkPreview)
	}
}

func conversation(threads *scrape.ThreadScraper) echo.HandlerFunc {
	return func(c echo.Context) error {
		address := c.QueryParam("url")
		if address == "" {
			return c.JSON(http.StatusBadRequest, types.OutcomeError{Error: "missing url parameter"})
		}

		conv, err := threads.Discover(address)
		if err != nil {
			return c.JSON(http.StatusBadGateway, types.OutcomeError{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, conv)
	}
}
