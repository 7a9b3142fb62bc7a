package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testConfig(maxRetries int) Config {
	return Config{
		MaxRetries: maxRetries,
		BaseDelay:  10 * time.Millisecond,
		MaxDelay:   100 * time.Millisecond,
		Timeout:    1 * time.Second,
	}
}

func TestWithRetrySuccess(t *testing.T) {
	callCount := 0
	operation := func(ctx context.Context) (string, error) {
		callCount++
		return "success", nil
	}

	result, err := WithRetry(context.Background(), testConfig(3), operation)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("Expected 'success', got %s", result)
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call, got %d", callCount)
	}
}

func TestWithRetrySuccessAfterRetries(t *testing.T) {
	callCount := 0
	operation := func(ctx context.Context) (string, error) {
		callCount++
		if callCount < 3 {
			return "", errors.New("temporary failure")
		}
		return "success", nil
	}

	result, err := WithRetry(context.Background(), testConfig(3), operation)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("Expected 'success', got %s", result)
	}
	if callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", callCount)
	}
}

func TestWithRetryFailureAfterMaxRetries(t *testing.T) {
	callCount := 0
	operation := func(ctx context.Context) (string, error) {
		callCount++
		return "", errors.New("persistent failure")
	}

	_, err := WithRetry(context.Background(), testConfig(2), operation)
	if err == nil {
		t.Error("Expected an error after exhausting retries")
	}
	if callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", callCount)
	}
}

func TestWithRetryContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	callCount := 0
	operation := func(ctx context.Context) (int, error) {
		callCount++
		return 0, errors.New("should not matter")
	}

	_, err := WithRetry(ctx, testConfig(3), operation)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if callCount != 0 {
		t.Errorf("Expected 0 calls on cancelled context, got %d", callCount)
	}
}

func TestWithRetryInfiniteEventuallySucceeds(t *testing.T) {
	cfg := Config{
		BaseDelay:     time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		Timeout:       time.Second,
		InfiniteRetry: true,
	}

	callCount := 0
	operation := func(ctx context.Context) (string, error) {
		callCount++
		if callCount < 5 {
			return "", errors.New("not yet")
		}
		return "done", nil
	}

	result, err := WithRetry(context.Background(), cfg, operation)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if result != "done" {
		t.Errorf("Expected 'done', got %s", result)
	}
	if callCount != 5 {
		t.Errorf("Expected 5 calls, got %d", callCount)
	}
}
