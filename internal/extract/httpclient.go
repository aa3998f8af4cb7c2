package extract

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	webRetryWaitMin = 250 * time.Millisecond
	webRetryWaitMax = 4 * time.Second
)

// NewRetryingHTTPClient returns a client for WithHTTPClient that retries
// connection errors, 429s and 5xx responses up to retries times. Once
// retries run out the last response is handed back unchanged so the
// extractor still sees its status code. The Extractor itself fetches once;
// retry policy belongs to whoever constructs it.
func NewRetryingHTTPClient(retries int) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retries
	rc.RetryWaitMin = webRetryWaitMin
	rc.RetryWaitMax = webRetryWaitMax
	rc.Logger = nil
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return rc.StandardClient()
}
