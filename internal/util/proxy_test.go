package util

import (
	"net/http"
	"testing"
)

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:3128", "http://secure.local:3128", "localhost, .internal.example")

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"http uses http proxy", "http://www.gutenberg.org/files/1342.txt", "http://proxy.local:3128"},
		{"https uses https proxy", "https://www.gutenberg.org/files/1342.txt", "http://secure.local:3128"},
		{"exact bypass", "http://localhost:8080/book.txt", ""},
		{"suffix bypass", "https://books.internal.example/1342", ""},
		{"bypass is case insensitive", "https://Books.Internal.Example/1342", ""},
		{"suffix must match a label", "https://notinternal.example/1342", "http://secure.local:3128"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, tt.url, nil)
			if err != nil {
				t.Fatal(err)
			}
			got, err := proxy(req)
			if err != nil {
				t.Fatalf("proxy() error: %v", err)
			}
			if tt.want == "" {
				if got != nil {
					t.Errorf("proxy(%s) = %v, want direct", tt.url, got)
				}
				return
			}
			if got == nil || got.String() != tt.want {
				t.Errorf("proxy(%s) = %v, want %s", tt.url, got, tt.want)
			}
		})
	}
}

func TestNewProxyFunc_HTTPSFallsBackToHTTPProxy(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:3128", "", "")

	req, _ := http.NewRequest(http.MethodGet, "https://www.gutenberg.org/", nil)
	got, err := proxy(req)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Host != "proxy.local:3128" {
		t.Errorf("proxy() = %v, want http proxy", got)
	}
}

func TestParseNoProxy(t *testing.T) {
	got := parseNoProxy(" example.com, .Foo.org ,,*")
	want := []string{"example.com", "foo.org", "*"}
	if len(got) != len(want) {
		t.Fatalf("parseNoProxy() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, got[i], want[i])
		}
	}

	if !bypassProxy("anything.net", got) {
		t.Error("wildcard entry should bypass every host")
	}
}
