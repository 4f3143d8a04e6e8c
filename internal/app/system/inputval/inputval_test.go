package inputval

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type signup struct {
	Email       string `json:"email" validate:"required,email" label:"Email"`
	Password    string `json:"password" validate:"min=6" label:"Password"`
	DisplayName string `json:"displayName" validate:"min=2"`
	Role        string `json:"role" validate:"omitempty,oneof=athlete coach"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		input signup
		want  string
	}{
		{"valid", signup{"a@b.co", "secret", "Al", "coach"}, ""},
		{"missing email", signup{"", "secret", "Al", ""}, "Email is required."},
		{"bad email", signup{"nope", "secret", "Al", ""}, "Email must be a valid email address."},
		{"short password", signup{"a@b.co", "123", "Al", ""}, "Password must be at least 6 characters."},
		{"json name used without label", signup{"a@b.co", "secret", "A", ""}, "displayName must be at least 2 characters."},
		{"bad role", signup{"a@b.co", "secret", "Al", "admin"}, "role must be one of: athlete coach."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.input)
			if tt.want == "" {
				if res.HasErrors() {
					t.Fatalf("unexpected errors: %v", res.Errors)
				}
				return
			}
			if res.First() != tt.want {
				t.Errorf("First() = %q, want %q", res.First(), tt.want)
			}
		})
	}
}

func TestCheck_ReturnsInvalidInput(t *testing.T) {
	err := Check(signup{Email: "x"})
	if !apperr.Is(err, apperr.KindInvalidInput) {
		t.Fatalf("Check err = %v, want INVALID_INPUT", err)
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst signup
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","extra":1}`))
	if err := DecodeJSON(httptest.NewRecorder(), r, &dst); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if dst.Email != "a@b.co" {
		t.Errorf("Email = %q", dst.Email)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))
	if err := DecodeJSON(httptest.NewRecorder(), r, &dst); !apperr.Is(err, apperr.KindInvalidInput) {
		t.Errorf("malformed body err = %v, want INVALID_INPUT", err)
	}
}

// countingReader yields a JSON value followed by n bytes of whitespace and
// records how much was consumed.
type countingReader struct {
	head []byte
	pad  int64
	read int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	if len(c.head) > 0 {
		n := copy(p, c.head)
		c.head = c.head[n:]
		c.read += int64(n)
		return n, nil
	}
	if c.pad == 0 {
		return 0, io.EOF
	}
	n := int64(len(p))
	if n > c.pad {
		n = c.pad
	}
	for i := int64(0); i < n; i++ {
		p[i] = ' '
	}
	c.pad -= n
	c.read += n
	return int(n), nil
}

func TestDecodeJSON_BoundsBodyReads(t *testing.T) {
	body := &countingReader{head: []byte(`{"email":"a@b.co"}`), pad: 64 << 20}
	r := httptest.NewRequest(http.MethodPost, "/", body)

	var dst signup
	if err := DecodeJSON(httptest.NewRecorder(), r, &dst); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if dst.Email != "a@b.co" {
		t.Errorf("Email = %q", dst.Email)
	}
	if body.read > 2*MaxBodyBytes {
		t.Errorf("read %d bytes, want at most %d", body.read, 2*MaxBodyBytes)
	}
}

func TestDecodeJSON_OversizedValue(t *testing.T) {
	big := `{"email":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))

	var dst signup
	err := DecodeJSON(httptest.NewRecorder(), r, &dst)
	if !apperr.Is(err, apperr.KindInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

func TestIDParam(t *testing.T) {
	id := primitive.NewObjectID()
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"valid", id.Hex(), true},
		{"malformed", "not-an-id", false},
		{"empty", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tc.value)
			r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

			got, err := IDParam(r, "id", "Group")
			if tc.ok {
				if err != nil || got != id {
					t.Fatalf("IDParam: got %v, %v", got, err)
				}
				return
			}
			if !apperr.Is(err, apperr.KindNotFound) {
				t.Fatalf("expected NotFound, got %v", err)
			}
			if apperr.As(err).Message() != "Group not found" {
				t.Errorf("message: got %q", apperr.As(err).Message())
			}
		})
	}
}
