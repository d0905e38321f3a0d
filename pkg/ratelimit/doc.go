// Package ratelimit paces requests to lensdump.com.
//
// Two strategies are available through New:
//
// Token bucket (default): bursts of up to burst_size requests, then one
// request per 60s/requests_per_minute.
//
// Sliding window: at most requests_per_minute requests in any rolling
// minute.
//
//	limiter, err := ratelimit.New(cfg.RateLimit)
//	if err := limiter.Wait(ctx); err != nil {
//		return err
//	}
package ratelimit
