package studentapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acharya/acharya/internal/domain/shared"
	"github.com/acharya/acharya/internal/domain/student"
	"github.com/acharya/acharya/pkg/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(ClientConfig{BaseURL: srv.URL, Logger: logger.Discard()})
	require.NoError(t, err)
	return c
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, base := range []string{"", "localhost:8080", "/api", "://bad"} {
		_, err := NewClient(ClientConfig{BaseURL: base})
		assert.ErrorIs(t, err, ErrInvalidBaseURL, base)
	}
}

func TestClient_List(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/students", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `[
			{"id": 7, "firstName": "Asha", "lastName": "Rao", "grade": "3rd Grade"},
			{"id": "b2", "firstName": "Ben", "email": null, "medicalConditions": "asthma"}
		]`)
	})

	got, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "7", got[0].ID)
	assert.Equal(t, "Asha Rao", got[0].FullName())
	assert.Equal(t, student.Grade3, got[0].Grade)
	assert.Equal(t, "", got[0].Allergies)

	assert.Equal(t, "b2", got[1].ID)
	assert.Equal(t, "", got[1].Email)
	assert.Equal(t, "asthma", got[1].MedicalConditions)
}

func TestClient_List_NullBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `null`)
	})

	got, err := c.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestClient_GetByID_EscapesID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/students/a%2Fb", r.URL.EscapedPath())
		_, _ = io.WriteString(w, `{"id":"a/b","firstName":"Slash"}`)
	})

	got, err := c.GetByID(context.Background(), "a/b")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a/b", got.ID)
}

func TestClient_Create_OmitsID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/students", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasID := body["id"]
		assert.False(t, hasID)
		_, hasAllergies := body["allergies"]
		assert.False(t, hasAllergies)
		assert.Equal(t, "Dana", body["firstName"])
		assert.Equal(t, "", body["city"])

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"srv-1","firstName":"Dana","createdAt":"2026-10-01T10:00:00Z"}`)
	})

	got, err := c.Create(context.Background(), student.Student{ID: "client-made-up", FirstName: "Dana"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "srv-1", got.ID)
	assert.Equal(t, "2026-10-01T10:00:00Z", got.CreatedAt)
}

func TestClient_Update(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/students/42", r.URL.Path)

		var dto StudentDTO
		require.NoError(t, json.NewDecoder(r.Body).Decode(&dto))
		assert.Equal(t, Text("42"), dto.ID)
		assert.Equal(t, Text("6th Grade"), dto.Grade)

		_ = json.NewEncoder(w).Encode(dto)
	})

	got, err := c.Update(context.Background(), "42", student.Student{ID: "42", Grade: student.Grade6})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, student.Grade6, got.Grade)
}

func TestClient_Update_EmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	got, err := c.Update(context.Background(), "1", student.Student{})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_Create_NullBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, " null\n")
	})

	got, err := c.Create(context.Background(), student.Student{FirstName: "Asha"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_Delete(t *testing.T) {
	var called bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/students/9", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Delete(context.Background(), "9"))
	assert.True(t, called)
}

func TestClient_Search_EncodesQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/students/search", r.URL.Path)
		assert.Equal(t, "q=o'neil%20%26%20sons%2Bco", r.URL.RawQuery)
		assert.Equal(t, "o'neil & sons+co", r.URL.Query().Get("q"))
		_, _ = io.WriteString(w, `[{"id":"1","lastName":"O'Neil"}]`)
	})

	got, err := c.Search(context.Background(), "o'neil & sons+co")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "O'Neil", got[0].LastName)
}

func TestClient_CustomBasePathAndAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/pupils", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{BaseURL: srv.URL + "/", BasePath: "v2/pupils/", APIKey: "secret", Logger: logger.Discard()})
	require.NoError(t, err)

	_, err = c.List(context.Background())
	require.NoError(t, err)
}

func TestClient_APIErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
		kind    error
	}{
		{"not found json", http.StatusNotFound, `{"status":"error","error":"student not found"}`, "student not found", shared.ErrNotFound},
		{"validation message field", http.StatusUnprocessableEntity, `{"message":"email is required"}`, "email is required", shared.ErrValidation},
		{"plain text", http.StatusBadRequest, "bad grade", "bad grade", shared.ErrValidation},
		{"html page", http.StatusBadGateway, "<html>oops</html>", "Bad Gateway", shared.ErrServiceUnavailable},
		{"conflict", http.StatusConflict, ``, "Conflict", shared.ErrAlreadyExists},
		{"unauthorized", http.StatusUnauthorized, `{}`, "Unauthorized", shared.ErrUnauthorized},
		{"teapot", http.StatusTeapot, ``, "I'm a teapot", shared.ErrExternalService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			err := c.Delete(context.Background(), "1")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.NotEmpty(t, apiErr.RequestID)
			assert.ErrorIs(t, err, tt.kind)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestClient_TransportErrorPropagates(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c, err := NewClient(ClientConfig{BaseURL: "http://" + addr, Logger: logger.Discard()})
	require.NoError(t, err)

	_, err = c.List(context.Background())
	require.Error(t, err)

	var urlErr *url.Error
	assert.True(t, errors.As(err, &urlErr))
}

func TestClient_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id": {"nested": true}}`)
	})

	_, err := c.GetByID(context.Background(), "1")
	assert.Error(t, err)
}

func TestEncodeURIComponent(t *testing.T) {
	assert.Equal(t, "a%20b", EncodeURIComponent("a b"))
	assert.Equal(t, "%2B1", EncodeURIComponent("+1"))
	assert.Equal(t, "x%3Dy%26z", EncodeURIComponent("x=y&z"))
	assert.Equal(t, "", EncodeURIComponent(""))
	assert.Equal(t, "it's(1)*!~-_.", EncodeURIComponent("it's(1)*!~-_."))
	assert.Equal(t, "%252A%20%2521", EncodeURIComponent("%2A %21"))
}
