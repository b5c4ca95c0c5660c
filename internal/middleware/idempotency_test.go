package middleware

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestStoredResponse_SurvivesMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		body []byte
	}{
		{"json body", []byte(`{"id":"trip-1"}`)},
		{"plain text body", []byte("created")},
		{"empty body", nil},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in := storedResponse{
				StatusCode:  201,
				ContentType: "application/json",
				Body:        tc.body,
			}

			data, err := json.Marshal(&in)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}

			var out storedResponse
			if err := json.Unmarshal(data, &out); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}

			if out.StatusCode != in.StatusCode {
				t.Errorf("status = %d, want %d", out.StatusCode, in.StatusCode)
			}
			if out.ContentType != in.ContentType {
				t.Errorf("content type = %q, want %q", out.ContentType, in.ContentType)
			}
			if !bytes.Equal(out.Body, in.Body) {
				t.Errorf("body = %q, want %q", out.Body, in.Body)
			}
		})
	}
}
