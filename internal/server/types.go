// Package server exposes tailor's two HTTP routes: the webhook intake
// that enqueues pull-request validation runs, and the status page that
// renders a failure list from an opaque, server-state-free token.
package server

// WebhookEvent is the minimal decode target for an inbound provider
// webhook payload. Fields the handler doesn't need are ignored by the
// JSON decoder, so additional payload fields are harmless.
type WebhookEvent struct {
	Repository struct {
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
		Name string `json:"name"`
	} `json:"repository"`
	Action      string `json:"action"`
	Hook        *struct{} `json:"hook,omitempty"`
	PullRequest *struct {
		Number int `json:"number"`
		Head   struct {
			SHA string `json:"sha"`
		} `json:"head"`
	} `json:"pull_request,omitempty"`
}
