package ports

import "net/http"

// HTTPDoer is the subset of *http.Client the adapters need.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}
