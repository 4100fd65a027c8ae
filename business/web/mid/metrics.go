package mid

import (
	"context"
	"net/http"

	"github.com/ardanlabs/ledger/foundation/web"
)

// Recorder represents the behavior required to count requests.
type Recorder interface {
	Request()
	Error()
	Panic()
}

// Metrics updates program counters.
func Metrics(rec Recorder) web.Middleware {

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			// Call the next handler.
			err := handler(ctx, w, r)

			// Increment the request counter.
			rec.Request()

			// Increment if there is an error flowing through the request.
			if err != nil {
				rec.Error()
			}

			// Return the error so it can be handled further up the chain.
			return err
		}

		return h
	}

	return m
}
