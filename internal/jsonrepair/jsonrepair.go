// Package jsonrepair turns unreliable model output into typed documents.
//
// Generative output often wraps the JSON object in prose or code fences.
// ExtractObject cuts the outermost object out of raw text, Decode parses it
// strictly and fits it onto a typed value, and Do regenerates a bounded
// number of times when parsing fails.
package jsonrepair

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ErrNoObject is returned when raw text contains no '{' ... '}' span.
var ErrNoObject = errors.New("jsonrepair: no JSON object found")

// ExtractObject returns the substring of raw from the first '{' to the last '}',
// both included. Applying it to its own output returns the same string.
func ExtractObject(raw string) (string, error) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return "", ErrNoObject
	}
	return raw[start : end+1], nil
}

// Decode extracts the object from raw and decodes it into T.
// Trailing commas, unescaped newlines inside strings, and trailing data after
// the object all fail. Leaves of the wrong JSON type do not: they are coerced
// to T's shape where the value converts and dropped to null where it does not.
func Decode[T any](raw string) (T, error) {
	var zero T

	obj, err := ExtractObject(raw)
	if err != nil {
		return zero, err
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(obj)))
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return zero, fmt.Errorf("jsonrepair: decode: %w", err)
	}
	if dec.More() {
		return zero, errors.New("jsonrepair: decode: trailing data after object")
	}
	if _, ok := generic.(map[string]any); !ok {
		return zero, errors.New("jsonrepair: decode: top-level value is not an object")
	}

	var v T
	md, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &v,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return zero, fmt.Errorf("jsonrepair: decoder: %w", err)
	}
	if err := md.Decode(conform(generic, reflect.TypeFor[T]())); err != nil {
		return zero, fmt.Errorf("jsonrepair: decode: %w", err)
	}
	return v, nil
}

// Policy bounds the regeneration loop of Do.
type Policy struct {
	// Retries is the number of regenerations after the first attempt.
	Retries int
	// Backoff is the pause between attempts.
	Backoff time.Duration
	// Sleep waits for d or until ctx is done. Nil uses a timer; tests inject a no-op.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnRetry is called before every regeneration with the failed attempt number
	// and its parse error. Optional.
	OnRetry func(attempt int, err error)
}

// DefaultPolicy allows two regenerations one second apart.
func DefaultPolicy() Policy {
	return Policy{Retries: 2, Backoff: time.Second}
}

// Do calls generate and parses its output until parsing succeeds or
// p.Retries+1 attempts have been made.
//
// Errors from generate (transport failures) are returned immediately and are
// not retried here. When every attempt fails to parse, Do returns a
// *domain.GenerationFormatError holding the last parse error.
func Do[T any](ctx context.Context, p Policy, generate func(ctx context.Context) (string, error), parse func(raw string) (T, error)) (T, error) {
	var zero T
	if parse == nil {
		parse = Decode[T]
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	attempts := p.Retries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if p.OnRetry != nil {
				p.OnRetry(attempt-1, lastErr)
			}
			if err := sleep(ctx, p.Backoff); err != nil {
				return zero, err
			}
		}

		raw, err := generate(ctx)
		if err != nil {
			return zero, err
		}

		v, err := parse(raw)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}

	return zero, &domain.GenerationFormatError{Attempts: attempts, Err: lastErr}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
