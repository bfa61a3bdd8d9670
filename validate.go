package sweetmark

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// MinProbeDelay is the floor for the gap between consecutive probes. The
// throttle keeps a long run from looking like a scan to remote hosts.
const MinProbeDelay = 500 * time.Millisecond

// minProbeDelay is the floor Validate actually applies; tests drop it so the
// suite does not sleep through the throttle.
var minProbeDelay = MinProbeDelay

// Validate probes every bookmark in order and collects the failures.
//
// Records with an empty URL are reported through Progress but never probed.
// A fault while handling one record (including a panicking Progress callback
// or checker) is contained to that record; the run continues. The only error
// Validate returns is the context's, checked at record boundaries, so a
// cancelled run still hands back everything gathered so far.
func Validate(ctx context.Context, bookmarks []Bookmark, opts ValidateOptions) (ValidateResult, error) {
	checker := opts.Checker
	if checker == nil {
		checker = &Checker{}
	}
	delay := opts.Delay
	if delay < minProbeDelay {
		delay = minProbeDelay
	}
	limiter := rate.NewLimiter(rate.Every(delay), 1)

	var res ValidateResult
	total := len(bookmarks)
	for i, b := range bookmarks {
		if b.URL == "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("sweetmark: empty URL for bookmark %q", b.Title))
			report(opts.Progress, i+1, total, CheckResult{Bookmark: b}, &res.Warnings)
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return res, err
		}

		r, warnings := checkOne(ctx, checker, b)
		res.Warnings = append(res.Warnings, warnings...)
		res.Processed++
		if !r.OK() {
			res.Invalid = append(res.Invalid, r)
		}
		report(opts.Progress, i+1, total, r, &res.Warnings)
	}
	return res, nil
}

func checkOne(ctx context.Context, checker *Checker, b Bookmark) (r CheckResult, warnings []string) {
	defer func() {
		if p := recover(); p != nil {
			warnings = append(warnings, fmt.Sprintf("sweetmark: panic checking %q: %v", b.URL, p))
			r = CheckResult{Bookmark: b}
		}
	}()

	status, checkWarnings := checker.Check(ctx, b.URL)
	return CheckResult{Bookmark: b, Status: status}, checkWarnings
}

func report(progress func(int, int, CheckResult), i, total int, r CheckResult, warnings *[]string) {
	if progress == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			*warnings = append(*warnings, fmt.Sprintf("sweetmark: panic in progress callback: %v", p))
		}
	}()
	progress(i, total, r)
}
