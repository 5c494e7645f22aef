package slugs

import "testing"

func TestName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My API (v2)", "my-api-v2"},
		{"cps", "cps"},
		{"hello_world", "hello_world"},
		{"Café Crème", "cafe-creme"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := Name(tc.in); got != tc.want {
			t.Fatalf("Name(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal("my api", "My-API") {
		t.Fatalf("expected slugs to match")
	}
	if Equal("", "") {
		t.Fatalf("empty names must not match")
	}
	if Equal("api", "apis") {
		t.Fatalf("different names must not match")
	}
}
