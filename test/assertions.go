// Package test holds assertion helpers shared by the package tests.
package test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// AssertWantErr checks err against the expected message, an empty wantErr
// meaning no error. It returns true when an error was received, so the
// caller can stop checking results.
func AssertWantErr(err error, wantErr, caller string, t *testing.T) bool {
	t.Helper()
	if err != nil {
		if wantErr != err.Error() {
			t.Errorf("%s error = %v, wantErr %q", caller, err, wantErr)
		}

		return true
	} else if wantErr != "" {
		t.Errorf("%s expected error %q, did not receive an error", caller, wantErr)
		return true
	}

	return false
}

// AssertDiff reports a test error showing the difference between want and
// got, if any.
func AssertDiff(want, got interface{}, caller string, t *testing.T, opts ...cmp.Option) bool {
	t.Helper()
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Errorf("%s mismatch (-want +got):\n%s", caller, diff)
		return false
	}
	return true
}
