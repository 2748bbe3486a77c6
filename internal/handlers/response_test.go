package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"todo-manager/backend/internal/apperror"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		kind apperror.Kind
		want int
	}{
		{apperror.KindNotFound, http.StatusNotFound},
		{apperror.KindForbidden, http.StatusForbidden},
		{apperror.KindConflict, http.StatusConflict},
		{apperror.KindUnauthorized, http.StatusUnauthorized},
		{apperror.KindBadRequest, http.StatusBadRequest},
		{apperror.KindUpstream, http.StatusBadGateway},
		{apperror.KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusOf(tc.kind), tc.kind.String())
	}
}

func TestRespondError_PlainErrorIs500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/todos", nil)

	RespondError(c, errors.New("connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"status":500,"code":"INTERNAL_ERROR","error":"internal server error"}`, w.Body.String())
	assert.True(t, c.IsAborted())
}
