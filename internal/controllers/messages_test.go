package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/helpify-project/messageboard/internal/database/dbtest"
)

type wireMessage struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newTestHandler(t *testing.T) http.Handler {
	return Wrap(NewRouter(dbtest.Open(t), false), io.Discard)
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createMessage(t *testing.T, h http.Handler, body, username string) wireMessage {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"body": body, "username": username})
	require.NoError(t, err)

	rec := do(h, http.MethodPost, "/messages", string(payload))
	require.Equal(t, http.StatusCreated, rec.Code)

	var msg wireMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	return msg
}

func TestCreateMessage(t *testing.T) {
	req := require.New(t)
	h := newTestHandler(t)

	rec := do(h, http.MethodPost, "/messages", `{"body":"Hello","username":"Liza"}`)
	req.Equal(http.StatusCreated, rec.Code)
	req.Equal("application/json", rec.Header().Get("Content-Type"))

	var raw map[string]interface{}
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &raw))
	req.Equal("Hello", raw["body"])
	req.Equal("Liza", raw["username"])
	req.NotNil(raw["id"])
	req.NotNil(raw["created_at"])
	req.NotNil(raw["updated_at"])
	req.Len(raw, 5)
}

func TestCreateMessageFieldOrder(t *testing.T) {
	req := require.New(t)
	h := newTestHandler(t)

	rec := do(h, http.MethodPost, "/messages", `{"body":"Hello","username":"Liza"}`)
	req.Equal(http.StatusCreated, rec.Code)

	out := rec.Body.String()
	last := -1
	for _, key := range []string{`"id"`, `"body"`, `"username"`, `"created_at"`, `"updated_at"`} {
		idx := strings.Index(out, key)
		req.Greater(idx, last, "key %s out of order in %s", key, out)
		last = idx
	}
}

func TestCreateMessageMissingFields(t *testing.T) {
	h := newTestHandler(t)

	for _, body := range []string{
		`{"username":"Liza"}`,
		`{"body":"Hello"}`,
		`{"body":"","username":"Liza"}`,
		`{}`,
		``,
	} {
		t.Run(body, func(t *testing.T) {
			req := require.New(t)

			rec := do(h, http.MethodPost, "/messages", body)
			req.Equal(http.StatusBadRequest, rec.Code)
			req.JSONEq(`{"error":"Missing required fields"}`, rec.Body.String())
		})
	}
}

func TestCreateMessageInvalidBody(t *testing.T) {
	req := require.New(t)
	h := newTestHandler(t)

	rec := do(h, http.MethodPost, "/messages", `{"body":5,"username":"Liza"}`)
	req.Equal(http.StatusBadRequest, rec.Code)
	req.JSONEq(`{"error":"Invalid request body"}`, rec.Body.String())

	rec = do(h, http.MethodPost, "/messages", `{"body":`)
	req.Equal(http.StatusBadRequest, rec.Code)
}

func TestCreateMessageTrailingData(t *testing.T) {
	req := require.New(t)
	h := newTestHandler(t)

	for _, body := range []string{
		`{"body":"a","username":"b"} trailing`,
		`{"body":"a","username":"b"}{"body":"c","username":"d"}`,
	} {
		rec := do(h, http.MethodPost, "/messages", body)
		req.Equal(http.StatusBadRequest, rec.Code, body)
		req.JSONEq(`{"error":"Invalid request body"}`, rec.Body.String())
	}

	rec := do(h, http.MethodPost, "/messages", "{\"body\":\"a\",\"username\":\"b\"}\n  ")
	req.Equal(http.StatusCreated, rec.Code)

	rec = do(h, http.MethodGet, "/messages", "")
	var messages []wireMessage
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &messages))
	req.Len(messages, 1)
}

func TestCreateMessageBodyTooLarge(t *testing.T) {
	req := require.New(t)
	h := newTestHandler(t)

	body := `{"body":"` + strings.Repeat("a", maxBodyBytes) + `","username":"Liza"}`
	rec := do(h, http.MethodPost, "/messages", body)
	req.Equal(http.StatusRequestEntityTooLarge, rec.Code)
	req.JSONEq(`{"error":"Request body too large"}`, rec.Body.String())
}

func TestListMessages(t *testing.T) {
	req := require.New(t)
	h := newTestHandler(t)

	rec := do(h, http.MethodGet, "/messages", "")
	req.Equal(http.StatusOK, rec.Code)
	req.JSONEq(`[]`, rec.Body.String())

	first := createMessage(t, h, "one", "Alice")
	second := createMessage(t, h, "two", "Bob")
	third := createMessage(t, h, "three", "Clara")

	rec = do(h, http.MethodGet, "/messages", "")
	req.Equal(http.StatusOK, rec.Code)
	req.Equal("application/json", rec.Header().Get("Content-Type"))

	var messages []wireMessage
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &messages))
	req.Len(messages, 3)
	req.Equal([]int64{first.ID, second.ID, third.ID}, []int64{messages[0].ID, messages[1].ID, messages[2].ID})
	for i := 1; i < len(messages); i++ {
		req.False(messages[i].CreatedAt.Before(messages[i-1].CreatedAt))
	}
}

func TestGetMessage(t *testing.T) {
	req := require.New(t)
	h := newTestHandler(t)

	created := createMessage(t, h, "Hello 👋", "Liza")

	rec := do(h, http.MethodGet, fmt.Sprintf("/messages/%d", created.ID), "")
	req.Equal(http.StatusOK, rec.Code)

	var fetched wireMessage
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &fetched))
	req.Equal(created.ID, fetched.ID)
	req.Equal(created.Body, fetched.Body)
	req.Equal(created.Username, fetched.Username)
	req.True(created.CreatedAt.Equal(fetched.CreatedAt))

	again := do(h, http.MethodGet, fmt.Sprintf("/messages/%d", created.ID), "")
	req.Equal(rec.Body.String(), again.Body.String())
}

func TestGetMessageNotFound(t *testing.T) {
	req := require.New(t)
	h := newTestHandler(t)

	req.Equal(http.StatusNotFound, do(h, http.MethodGet, "/messages/999", "").Code)
	req.Equal(http.StatusNotFound, do(h, http.MethodGet, "/messages/abc", "").Code)
	req.Equal(http.StatusNotFound, do(h, http.MethodGet, "/messages/99999999999999999999", "").Code)
}

func TestUpdateMessage(t *testing.T) {
	req := require.New(t)
	h := newTestHandler(t)

	created := createMessage(t, h, "Old Body", "Liza")
	time.Sleep(2 * time.Millisecond)

	rec := do(h, http.MethodPatch, fmt.Sprintf("/messages/%d", created.ID), `{"body":"Goodbye"}`)
	req.Equal(http.StatusOK, rec.Code)
	req.Equal("application/json", rec.Header().Get("Content-Type"))

	var updated wireMessage
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &updated))
	req.Equal("Goodbye", updated.Body)
	req.Equal("Liza", updated.Username)
	req.True(created.CreatedAt.Equal(updated.CreatedAt))
	req.True(updated.UpdatedAt.After(created.UpdatedAt))
}

func TestUpdateMessageEmptyBodyIsNoop(t *testing.T) {
	h := newTestHandler(t)
	created := createMessage(t, h, "keep", "Liza")

	for _, body := range []string{`{}`, `{"body":""}`, `{"body":null}`, ``} {
		t.Run(body, func(t *testing.T) {
			req := require.New(t)

			rec := do(h, http.MethodPatch, fmt.Sprintf("/messages/%d", created.ID), body)
			req.Equal(http.StatusOK, rec.Code)

			var msg wireMessage
			req.NoError(json.Unmarshal(rec.Body.Bytes(), &msg))
			req.Equal("keep", msg.Body)
			req.True(created.UpdatedAt.Equal(msg.UpdatedAt))
		})
	}
}

func TestUpdateMessageNotFound(t *testing.T) {
	h := newTestHandler(t)

	rec := do(h, http.MethodPatch, "/messages/12", `{"body":"Goodbye"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateMessageNotFoundBeatsBadBody(t *testing.T) {
	req := require.New(t)
	h := newTestHandler(t)

	rec := do(h, http.MethodPatch, "/messages/999", `{"body":`)
	req.Equal(http.StatusNotFound, rec.Code)

	created := createMessage(t, h, "Hello", "Liza")
	rec = do(h, http.MethodPatch, fmt.Sprintf("/messages/%d", created.ID), `{"body":`)
	req.Equal(http.StatusBadRequest, rec.Code)
}

func TestDeleteMessage(t *testing.T) {
	req := require.New(t)
	h := newTestHandler(t)

	created := createMessage(t, h, "Hello 👋", "Liza")
	target := fmt.Sprintf("/messages/%d", created.ID)

	rec := do(h, http.MethodDelete, target, "")
	req.Equal(http.StatusNoContent, rec.Code)
	req.Empty(rec.Body.String())

	req.Equal(http.StatusNotFound, do(h, http.MethodGet, target, "").Code)
	req.Equal(http.StatusNotFound, do(h, http.MethodDelete, target, "").Code)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t)

	rec := do(h, http.MethodPut, "/messages", `{}`)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	req := require.New(t)
	h := newTestHandler(t)

	r := httptest.NewRequest(http.MethodGet, "/messages", nil)
	r.Header.Set("Origin", "https://example.org")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	req.Equal(http.StatusOK, rec.Code)
	req.Equal("*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDHeader(t *testing.T) {
	req := require.New(t)
	h := newTestHandler(t)

	rec := do(h, http.MethodGet, "/messages", "")
	req.NotEmpty(rec.Header().Get(requestIDHeader))

	const rid = "7b0d2d47-0c4b-4a3e-9d53-5e0f3c1d6a11"
	r := httptest.NewRequest(http.MethodGet, "/messages", nil)
	r.Header.Set(requestIDHeader, rid)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	req.Equal(rid, rec.Header().Get(requestIDHeader))
}

func TestHealthz(t *testing.T) {
	req := require.New(t)
	h := newTestHandler(t)

	rec := do(h, http.MethodGet, "/healthz", "")
	req.Equal(http.StatusOK, rec.Code)
	req.Equal("OK\n", rec.Body.String())
}
