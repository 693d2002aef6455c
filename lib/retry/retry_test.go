package retry

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryConfig_WithRetries(t *testing.T) {
	{
		// 0 max attempts - still runs
		calls := 0
		err := NewRetryConfig(NewRetryConfigArgs{}).WithRetries(func(attempt int, _ error) error {
			calls++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	}
	{
		// 1 max attempts - fails
		calls := 0
		err := NewRetryConfig(NewRetryConfigArgs{MaxAttempts: 1}).WithRetries(func(attempt int, _ error) error {
			calls++
			return fmt.Errorf("oops I failed again")
		})
		assert.ErrorContains(t, err, "oops I failed again")
		assert.Equal(t, 1, calls)
	}
	{
		// 2 max attempts - first fails and second succeeds, previous error is passed along
		calls := 0
		var seen error
		err := NewRetryConfig(NewRetryConfigArgs{MaxAttempts: 2}).WithRetries(func(attempt int, prevErr error) error {
			calls++
			seen = prevErr
			if attempt == 0 {
				return fmt.Errorf("oops I failed again")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.ErrorContains(t, seen, "oops I failed again")
	}
	{
		// 3 max attempts - first fails with a retryable error, second fails with a non-retryable error
		calls := 0
		retryCfg := NewRetryConfig(NewRetryConfigArgs{
			MaxAttempts:    3,
			IsRetryableErr: func(err error) bool { return strings.Contains(err.Error(), "retry") },
		})
		err := retryCfg.WithRetries(func(attempt int, _ error) error {
			calls++
			if attempt == 0 {
				return fmt.Errorf("please retry")
			}
			return fmt.Errorf("fatal")
		})
		assert.ErrorContains(t, err, "fatal")
		assert.Equal(t, 2, calls)
	}
}

func TestWithRetries(t *testing.T) {
	calls := 0
	value, err := WithRetries(NewRetryConfig(NewRetryConfigArgs{MaxAttempts: 3}), func(attempt int, _ error) (string, error) {
		calls++
		if attempt < 2 {
			return "", fmt.Errorf("not yet")
		}
		return "done", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "done", value)
	assert.Equal(t, 3, calls)
}
