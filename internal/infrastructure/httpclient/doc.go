// Package httpclient provides the outbound HTTP client used by license providers.
//
// Built on go-resty/resty with a hashicorp/go-retryablehttp transport:
//   - Retries with exponential backoff on connection errors, 429 and 5xx
//   - One circuit breaker per client, so a failing forge cannot stall others
//   - Optional client-side rate limiting
//   - JSON decoding through bytedance/sonic
//
// Example Usage:
//
//	client := httpclient.New(httpclient.OptionsFromConfig("github", cfg.HTTPClient))
//	client.SetBaseURL(cfg.GitHub.APIURL)
//	resp, err := client.Get(ctx, "/repos/orkg/orkg-backend/license", func(r *resty.Request) {
//		r.SetResult(&payload)
//	})
package httpclient
