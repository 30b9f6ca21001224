package router

import (
	"time"

	tg "github.com/formrunner/formrunner/core/telegram"
	"github.com/formrunner/formrunner/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Dispatch handles one inbound text message and reports the name of the
// handler that processed it for summary logging. Empty name means the message
// was ignored (no active session and not a recognized command).
type Dispatch func(c tele.Context) (string, error)

// TextRoutes builds the OnText route feeding every inbound line into dispatch.
// Commands without an explicitly registered endpoint also arrive here, so the
// multi-prefix parser sees slash commands and plain text alike.
func TextRoutes(dispatch Dispatch) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()

		name, err := dispatch(c)
		if name == "" {
			logHandlerSummary(c, "ignored", start, "skip", "ok", err)
			return err
		}
		logHandlerSummary(c, normalizeHandlerName(name), start, "", "", err)
		return err
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
	}
}
