// Package httputil provides HTTP helpers shared by the API clients.
//
// # Retry
//
// [Retry] re-runs an operation whose error is wrapped in [RetryableError]
// (network failures, 5xx responses), doubling the delay between attempts:
//
//	err := httputil.Retry(ctx, attempts, time.Second, func() error {
//	    return client.Get(ctx, url, &v)
//	})
//
// The post lookup performs a single attempt by default; callers opt into
// retries through configuration.
package httputil
