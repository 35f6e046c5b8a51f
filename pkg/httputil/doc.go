// Package httputil holds the retry policy used when the offline worker falls
// back to a remote asset origin.
//
// [Retry] re-runs an operation with exponential backoff, but only for errors
// wrapped in [RetryableError]. [Transient] decides which origin responses
// count as transient: 5xx and 429.
//
//	err := httputil.Retry(ctx, 3, 200*time.Millisecond, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
package httputil
