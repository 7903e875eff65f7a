package constants

import "testing"

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]ApplicationStatus{
		"pending":              StatusPending,
		"  Interview ":         StatusInterview,
		"REJECTED":             StatusRejected,
		"accepted":             StatusAccepted,
		"application received": StatusPending,
		"":                     StatusPending,
	}
	for in, want := range cases {
		if got := NormalizeStatus(in); got != want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsJobRelated(t *testing.T) {
	if !IsJobRelated("Thank you for your application", "") {
		t.Error("application subject should match")
	}
	if !IsJobRelated("Hello", "we would like to schedule an interview") {
		t.Error("interview body should match")
	}
	if IsJobRelated("Weekend sale", "everything must go") {
		t.Error("unrelated message should not match")
	}
}
