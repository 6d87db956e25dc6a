package submit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/signup/internal/core/rules"
)

func testPayload() Payload {
	return PayloadFrom(rules.Values{
		rules.FieldName:            "Ada",
		rules.FieldSurname:         "Lovelace",
		rules.FieldEmail:           "ada@example.com",
		rules.FieldPassword:        "Analytic1!",
		rules.FieldConfirmPassword: "Analytic1!",
		rules.FieldBirthday:        "1815-12-10",
	})
}

func TestPayloadFrom(t *testing.T) {
	p := testPayload()
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "Lovelace", p.Surname)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.Equal(t, "Analytic1!", p.Password)
	assert.Equal(t, "Analytic1!", p.ConfirmedPassword)
	assert.Equal(t, "1815-12-10", p.Birthday)
}

func TestPayload_JSONKeys(t *testing.T) {
	bits, err := json.Marshal(testPayload())
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal(bits, &got))

	assert.Equal(t, map[string]string{
		"name":              "Ada",
		"surname":           "Lovelace",
		"email":             "ada@example.com",
		"birthday":          "1815-12-10",
		"password":          "Analytic1!",
		"confirmedPassword": "Analytic1!",
	}, got)
}

func TestPayload_Redacted(t *testing.T) {
	p := testPayload()
	r := p.Redacted()

	assert.Equal(t, "[redacted]", r.Password)
	assert.Equal(t, "[redacted]", r.ConfirmedPassword)
	assert.Equal(t, p.Email, r.Email)
	assert.Equal(t, "Analytic1!", p.Password, "original must be untouched")
}

func TestClient_Submit(t *testing.T) {
	var (
		calls       atomic.Int32
		gotBody     Payload
		contentType string
		method      string
		requestID   string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		requestID = r.Header.Get(RequestIDHeader)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 101}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zerolog.Nop())
	resp, err := c.Submit(context.Background(), testPayload())
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "application/json", contentType)
	_, err = uuid.Parse(requestID)
	assert.NoError(t, err, "request id should be a uuid")
	assert.Equal(t, testPayload(), gotBody)
	id, ok := resp.ID()
	require.True(t, ok)
	assert.InDelta(t, 101, id, 0)
}

func TestClient_Submit_EmptyResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, time.Second, zerolog.Nop()).Submit(context.Background(), testPayload())
	require.NoError(t, err)
	assert.Nil(t, resp.Body)
	_, ok := resp.ID()
	assert.False(t, ok)
}

func TestClient_Submit_NonObjectResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
		want any
	}{
		{name: "array", body: `[{"id": 1}]`, want: []any{map[string]any{"id": float64(1)}}},
		{name: "string", body: `"created"`, want: "created"},
		{name: "number", body: `101`, want: float64(101)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			resp, err := NewClient(srv.URL, time.Second, zerolog.Nop()).Submit(context.Background(), testPayload())
			require.NoError(t, err, "a 2xx answer is a successful submission")
			assert.Equal(t, tt.want, resp.Body)

			_, ok := resp.ID()
			assert.False(t, ok)
		})
	}
}

func TestRedactBody(t *testing.T) {
	got := redactBody(map[string]any{"id": float64(1), "password": "x", "confirmedPassword": "x"})
	assert.Equal(t, map[string]any{"id": float64(1), "password": "[redacted]", "confirmedPassword": "[redacted]"}, got)
	assert.Equal(t, []any{"a"}, redactBody([]any{"a"}))
}

func TestClient_Submit_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, zerolog.Nop()).Submit(context.Background(), testPayload())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "nope")
}

func TestClient_Submit_InvalidJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, zerolog.Nop()).Submit(context.Background(), testPayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Submit_IncompletePayload(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	p := testPayload()
	p.Birthday = ""

	_, err := NewClient(srv.URL, time.Second, zerolog.Nop()).Submit(context.Background(), p)
	require.ErrorIs(t, err, ErrIncompletePayload)
	assert.Zero(t, calls.Load(), "incomplete payload must not be sent")
}

func TestClient_Submit_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second, zerolog.Nop()).Submit(context.Background(), testPayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "post form")
}

func TestClient_Submit_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewClient(srv.URL, 5*time.Second, zerolog.Nop()).Submit(ctx, testPayload())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	c := NewClient("http://example.invalid", 0, zerolog.Nop())
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
	assert.Equal(t, "http://example.invalid", c.Endpoint())
}
