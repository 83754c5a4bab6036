package feed

import (
	"github.com/harmony-haven/haven-client/pkg/httpclient"
)

// Message converts a taxonomy error into the user-facing string shown next
// to the retry affordance. The raw error stays available for diagnostics.
func Message(err error) string {
	switch httpclient.KindOf(err) {
	case httpclient.KindConnectionError:
		return "No internet connection. Please check your network settings and try again."
	case httpclient.KindUnauthorized:
		return "Your session has expired. Please log in again."
	case httpclient.KindServerError:
		return "The server is experiencing issues. Please try again later."
	case httpclient.KindDecodingFailed:
		return "There was a problem processing the data. The development team has been notified."
	default:
		return "An unexpected error occurred. Please try again later."
	}
}
