package provider

import "net/url"

// SetBaseURLForTest points client at a local test server instead of the
// real provider API. It exists only so other packages' tests can exercise
// the adapter end to end without a network dependency.
func SetBaseURLForTest(client *Client, base *url.URL) {
	client.gh.BaseURL = base
	client.gh.UploadURL = base
}
