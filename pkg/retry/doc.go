// Package retry retries page and file requests that fail transiently.
//
// Errors typed by lensdl/pkg/errors are retried only when their type is
// retryable (network, rate_limit, server_error). Rate limit errors switch
// to a slower backoff.
//
//	err := retry.Do(ctx, func(ctx context.Context) error {
//		return fetch(ctx, url)
//	}, retry.FromConfig(cfg.Retry, log))
package retry
