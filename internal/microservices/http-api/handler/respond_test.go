package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"bookrating/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"book not found", service.ErrBookNotFound, http.StatusNotFound},
		{"wrapped author not found", fmt.Errorf("load: %w", service.ErrAuthorNotFound), http.StatusNotFound},
		{"book not on shelf", service.ErrBookNotOnShelf, http.StatusNotFound},
		{"not owner", service.ErrNotOwner, http.StatusForbidden},
		{"self follow", service.ErrCannotFollowSelf, http.StatusBadRequest},
		{"duplicate list entry", service.ErrBookAlreadyInList, http.StatusConflict},
		{"username taken", service.ErrNameInUse, http.StatusConflict},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"expired token", service.ErrExpiredToken, http.StatusUnauthorized},
		{"validation", &service.ValidationError{Fields: map[string]string{"rating": "is required"}}, http.StatusUnprocessableEntity},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter()
			router.GET("/", func(c *gin.Context) { respondError(c, tt.err) })

			w := performJSON(router, http.MethodGet, "/", nil)

			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestRespondError_HidesInternalMessage(t *testing.T) {
	router := setupRouter()
	router.GET("/", func(c *gin.Context) { respondError(c, errors.New("pq: password authentication failed")) })

	w := performJSON(router, http.MethodGet, "/", nil)

	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestPageParam(t *testing.T) {
	cases := map[string]int{
		"":         1,
		"?page=3":  3,
		"?page=0":  1,
		"?page=x":  1,
		"?page=-2": 1,
	}
	for query, want := range cases {
		router := setupRouter()
		var got int
		router.GET("/", func(c *gin.Context) { got = pageParam(c) })

		performJSON(router, http.MethodGet, "/"+query, nil)

		assert.Equal(t, want, got, "query %q", query)
	}
}
