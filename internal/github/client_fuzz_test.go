package github

import (
	"encoding/json"
	"testing"
)

func FuzzParseCount(f *testing.F) {
	seeds := []string{"42", "0", "-1", "4.2e1", "3.5", `"42"`, "null", "true", "", "1e400"}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		n, ok := parseCount(json.RawMessage(raw))
		if !ok {
			if n != 0 {
				t.Fatalf("parseCount(%q) = %d with ok=false", raw, n)
			}
			return
		}
		if n < 0 {
			t.Fatalf("parseCount(%q) returned negative count %d", raw, n)
		}
	})
}

func FuzzConvertToResult(f *testing.F) {
	f.Add([]byte(`{"full_name":"acme/widget","stargazers_count":42}`))
	f.Add([]byte(`{"stargazers_count":"many"}`))
	f.Add([]byte(`[]`))

	f.Fuzz(func(t *testing.T, body []byte) {
		var payload apiResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			return
		}
		result := convertToResult(payload)
		if result == nil {
			t.Fatalf("convertToResult returned nil result")
		}
		if result.StargazersCount != nil && *result.StargazersCount < 0 {
			t.Fatalf("negative stargazers count accepted: %d", *result.StargazersCount)
		}
	})
}
