package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusCreated, map[string]int{"a": 1})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.JSONEq(t, `{"a":1}`, w.Body.String())
}

func TestJSONNil(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, nil)
	require.Equal(t, "null", w.Body.String())
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	JSONError(w, http.StatusForbidden, "Access denied!", nil)

	require.Equal(t, http.StatusForbidden, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "Access denied!", body.Error)
	require.Nil(t, body.Details)
}

func TestJSONEncodeFailure(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, make(chan int))
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
