package runner

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"storefront_e2e/application/facade"
	"storefront_e2e/domain/entities"
)

// Expectations retry their probe until it matches or the assertion timeout
// elapses, then record an AssertionResult. A mismatch is returned as
// *entities.AssertionFailure. A probe that kept failing to produce a value is an
// infrastructure error and is returned wrapped; errors that retrying cannot fix
// are returned as is.

func (c *Context) ExpectTrue(desc string, probe func(ctx context.Context) (bool, error)) error {
	return c.expectBool(desc, true, probe)
}

func (c *Context) ExpectFalse(desc string, probe func(ctx context.Context) (bool, error)) error {
	return c.expectBool(desc, false, probe)
}

func (c *Context) expectBool(desc string, want bool, probe func(ctx context.Context) (bool, error)) error {
	return c.expect(desc, strconv.FormatBool(want), func(ctx context.Context) (string, bool, error) {
		got, err := probe(ctx)
		return strconv.FormatBool(got), got == want, err
	})
}

// ExpectEqual compares trimmed text
func (c *Context) ExpectEqual(desc, want string, probe func(ctx context.Context) (string, error)) error {
	want = strings.TrimSpace(want)
	return c.expect(desc, strconv.Quote(want), func(ctx context.Context) (string, bool, error) {
		got, err := probe(ctx)
		got = strings.TrimSpace(got)
		return strconv.Quote(got), got == want, err
	})
}

func (c *Context) ExpectContains(desc, sub string, probe func(ctx context.Context) (string, error)) error {
	return c.expect(desc, "contains "+strconv.Quote(sub), func(ctx context.Context) (string, bool, error) {
		got, err := probe(ctx)
		return strconv.Quote(got), strings.Contains(got, sub), err
	})
}

// ExpectContainsFold is ExpectContains ignoring case
func (c *Context) ExpectContainsFold(desc, sub string, probe func(ctx context.Context) (string, error)) error {
	return c.expect(desc, "contains "+strconv.Quote(sub)+" (any case)", func(ctx context.Context) (string, bool, error) {
		got, err := probe(ctx)
		return strconv.Quote(got), strings.Contains(strings.ToLower(got), strings.ToLower(sub)), err
	})
}

func (c *Context) ExpectMatch(desc string, re *regexp.Regexp, probe func(ctx context.Context) (string, error)) error {
	return c.expect(desc, "matches "+re.String(), func(ctx context.Context) (string, bool, error) {
		got, err := probe(ctx)
		return strconv.Quote(got), re.MatchString(got), err
	})
}

func (c *Context) ExpectCount(desc string, want int, probe func(ctx context.Context) (int, error)) error {
	return c.expect(desc, strconv.Itoa(want), func(ctx context.Context) (string, bool, error) {
		n, err := probe(ctx)
		return strconv.Itoa(n), n == want, err
	})
}

func (c *Context) ExpectAtLeast(desc string, min int, probe func(ctx context.Context) (int, error)) error {
	return c.expect(desc, fmt.Sprintf(">= %d", min), func(ctx context.Context) (string, bool, error) {
		n, err := probe(ctx)
		return strconv.Itoa(n), n >= min, err
	})
}

// ExpectURLContains checks the session's current URL
func (c *Context) ExpectURLContains(sub string) error {
	return c.ExpectContains("url", sub, c.session.URL)
}

// expect polls probe until it matches. The probe runs on the scenario context
// so facade waits inside it keep their own budget and report a missing element
// as such instead of a bare deadline.
func (c *Context) expect(desc, expected string, probe func(ctx context.Context) (string, bool, error)) error {
	var (
		actual  string
		lastErr error
	)
	_, err := facade.Poll(c.ctx, c.assertTimeout, c.pollInterval, func(context.Context) (bool, error) {
		got, ok, err := probe(c.ctx)
		if err != nil {
			if notRetryable(err) {
				return false, facade.Permanent(err)
			}
			lastErr = err
			return false, err
		}
		actual, lastErr = got, nil
		return ok, nil
	})

	res := entities.AssertionResult{
		Description: desc,
		Expected:    expected,
		Actual:      actual,
		Passed:      err == nil,
	}
	switch {
	case err == nil:
		c.record(res)
		return nil
	case c.ctx.Err() != nil, notRetryable(err):
		return err
	case lastErr != nil:
		// the page never produced a value to compare
		c.logger.WithField("assertion", desc).Debugf("probe failed: %v", lastErr)
		return fmt.Errorf("%s: %w", desc, lastErr)
	}

	res.Message = fmt.Sprintf("not met within %s", c.assertTimeout)
	c.record(res)
	c.logger.WithField("assertion", desc).Debugf("expected %s, got %s", expected, actual)
	return &entities.AssertionFailure{Result: res}
}

// notRetryable reports errors caused by the scenario itself rather than page timing
func notRetryable(err error) bool {
	var (
		unknownLocator *entities.UnknownLocatorError
		unknownAction  *entities.UnknownActionError
		blocked        *entities.GuardBlockedError
	)
	return errors.As(err, &unknownLocator) || errors.As(err, &unknownAction) || errors.As(err, &blocked)
}
