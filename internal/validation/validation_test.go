package validation

import (
	"net/http/httptest"
	"strings"
	"testing"
)

type payload struct {
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price" validate:"required,gt=0"`
}

func decode(t *testing.T, body string, out any) error {
	t.Helper()

	r := httptest.NewRequest("POST", "/", strings.NewReader(body))
	w := httptest.NewRecorder()
	return DecodeJSON(w, r, out)
}

func TestDecodeJSON(t *testing.T) {
	var p payload
	if err := decode(t, `{"name":"Widget","price":9.99}`, &p); err != nil {
		t.Fatalf("decode valid: %v", err)
	}
	if p.Name != "Widget" || p.Price != 9.99 {
		t.Errorf("decoded %+v", p)
	}
}

func TestDecodeJSON_Strict(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"unknown field", `{"name":"W","price":1,"extra":true}`},
		{"trailing garbage", `{"name":"W","price":1}{"again":1}`},
		{"not json", `nope`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p payload
			if err := decode(t, tc.body, &p); err == nil {
				t.Errorf("decode accepted %q", tc.body)
			}
		})
	}
}

func TestFields(t *testing.T) {
	v := New()

	err := v.Struct(payload{})
	if err == nil {
		t.Fatal("expected validation error")
	}

	fields := Fields(err)
	if len(fields) != 2 {
		t.Fatalf("fields = %v", fields)
	}
	if fields["payload.Name"] != "required" {
		t.Errorf("name rule = %q, want required", fields["payload.Name"])
	}
}
