package test

import (
	"errors"
	"strings"
	"testing"
)

func Equal[T comparable](t testing.TB, expected, actual T) bool {
	t.Helper()

	if expected != actual {
		t.Errorf(""+
			"Not equal: \n"+
			"Expected: %v\n"+
			"Actual: %v", expected, actual)
		return false
	}

	return true
}

func NoError(t testing.TB, err error) bool {
	t.Helper()

	if err != nil {
		t.Errorf("Unexpected error: %v", err)
		return false
	}

	return true
}

func ErrorIs(t testing.TB, err, target error) bool {
	t.Helper()

	if !errors.Is(err, target) {
		t.Errorf(""+
			"Error mismatch: \n"+
			"Expected: %v\n"+
			"Actual: %v", target, err)
		return false
	}

	return true
}

func Contains(t testing.TB, s, substr string) bool {
	t.Helper()

	if !strings.Contains(s, substr) {
		t.Errorf("%q does not contain %q", s, substr)
		return false
	}

	return true
}

func EqualSlice[T comparable](t testing.TB, expected, actual []T) bool {
	t.Helper()

	if len(expected) != len(actual) {
		t.Errorf(""+
			"Length mismatch: \n"+
			"Expected: %v\n"+
			"Actual: %v", expected, actual)
		return false
	}
	for i := range expected {
		if expected[i] != actual[i] {
			t.Errorf(""+
				"Not equal at index %d: \n"+
				"Expected: %v\n"+
				"Actual: %v", i, expected, actual)
			return false
		}
	}

	return true
}
