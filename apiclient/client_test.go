package apiclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := New(server.URL, "", 5*time.Second, 5*time.Second, logger)
	if err != nil {
		t.Fatalf("создание клиента: %v", err)
	}
	return c
}

func TestClientSendsBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /resources", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"resources":[]}`)
	})

	c := newTestClient(t, mux)
	c.SetToken("jwt-token")

	var out map[string]any
	if err := c.Get(context.Background(), "/resources", nil, &out); err != nil {
		t.Fatalf("GET: %v", err)
	}

	if gotAuth != "Bearer jwt-token" {
		t.Errorf("ожидали Bearer-заголовок, получили %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("каждый запрос должен нести X-Request-ID")
	}
}

func TestClientDecodesFieldErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /categories", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"success":false,"errors":[{"field":"name","message":"El nombre es obligatorio"}]}`)
	})

	c := newTestClient(t, mux)
	err := c.Post(context.Background(), "/categories", map[string]string{}, nil)
	if err == nil {
		t.Fatal("ожидали ошибку API")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("ожидали *APIError, получили %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("статус: %d", apiErr.StatusCode)
	}
	if len(apiErr.FieldErrors) != 1 || apiErr.FieldErrors[0].Field != "name" {
		t.Errorf("per-field ошибки: %+v", apiErr.FieldErrors)
	}
}

func TestClientDecodesMessageAndRawBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /resources/404", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"success":false,"message":"Recurso no encontrado"}`)
	})
	mux.HandleFunc("GET /proxy-error", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "Bad Gateway")
	})

	c := newTestClient(t, mux)
	ctx := context.Background()

	var apiErr *APIError
	if err := c.Get(ctx, "/resources/404", nil, nil); !errors.As(err, &apiErr) {
		t.Fatalf("ожидали *APIError, получили %v", err)
	}
	if !apiErr.IsNotFound() || apiErr.Message != "Recurso no encontrado" {
		t.Errorf("разбор JSON-конверта ошибки: %+v", apiErr)
	}

	// не-JSON тело (HTML/текст от прокси) сохраняется как сообщение
	if err := c.Get(ctx, "/proxy-error", nil, nil); !errors.As(err, &apiErr) {
		t.Fatalf("ожидали *APIError, получили %v", err)
	}
	if apiErr.Message != "Bad Gateway" {
		t.Errorf("сырое тело должно сохраняться как сообщение: %+v", apiErr)
	}
}

func TestClientQueryEncoding(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /resources", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{}`)
	})

	c := newTestClient(t, mux)
	q := url.Values{}
	q.Set("includeFile", "true")
	if err := c.Get(context.Background(), "/resources", q, nil); err != nil {
		t.Fatalf("GET: %v", err)
	}
	if gotQuery != "includeFile=true" {
		t.Errorf("query-параметры: %q", gotQuery)
	}
}

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"/resources", "/resources"},
		{"/resources/100", "/resources/{id}"},
		{"/resources/100/disable", "/resources/{id}/disable"},
		{"/resource-user/user/3", "/resource-user/user/{id}"},
	}
	for _, tc := range cases {
		if got := normalizePath(tc.in); got != tc.want {
			t.Errorf("normalizePath(%q) = %q, ожидали %q", tc.in, got, tc.want)
		}
	}
}

func TestClientBaseURLTrimsNothing(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := New("http://localhost:10000/api", "", time.Second, time.Second, logger)
	if err != nil {
		t.Fatalf("создание клиента: %v", err)
	}
	if c.BaseURL() != "http://localhost:10000/api" {
		t.Errorf("базовый URL должен сохраняться как есть: %q", c.BaseURL())
	}
}
