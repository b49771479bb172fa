// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/usercenter/usercenter/internal/auth"
	"github.com/usercenter/usercenter/pkg/errutil"
)

// Business status codes carried in the response envelope.
const (
	CodeSuccess     = 0
	CodeParamsError = 40000
	CodeNullError   = 40001
	CodeNotLogin    = 40100
	CodeNoAuth      = 40101
	CodeSystemError = 50000
)

// Response is the envelope written for every API call.
type Response struct {
	Code        int    `json:"code"`
	Data        any    `json:"data"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

type errorMapping struct {
	code    int
	status  int
	message string
}

var errorMappings = map[string]errorMapping{
	auth.CodeInvalidParams:      {CodeParamsError, http.StatusBadRequest, "invalid parameters"},
	auth.CodeInvalidCredentials: {CodeParamsError, http.StatusUnauthorized, "invalid parameters"},
	auth.CodeAccountConflict:    {CodeNullError, http.StatusConflict, "conflict"},
	auth.CodeCodeConflict:       {CodeNullError, http.StatusConflict, "conflict"},
	auth.CodeNotLoggedIn:        {CodeNotLogin, http.StatusUnauthorized, "not logged in"},
	auth.CodeForbidden:          {CodeNoAuth, http.StatusForbidden, "no permission"},
	auth.CodePersistFailed:      {CodeSystemError, http.StatusInternalServerError, "system error"},
}

var systemErrorMapping = errorMapping{CodeSystemError, http.StatusInternalServerError, "system error"}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: CodeSuccess, Data: data, Message: "ok"})
}

// respondParamsError reports a request the API could not decode.
func respondParamsError(c *gin.Context, description string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Response{
		Code:        CodeParamsError,
		Message:     "invalid parameters",
		Description: description,
	})
}

// respondError maps a service error onto the envelope. Only business failures
// expose their message; system faults are logged and described generically.
func respondError(c *gin.Context, err error) {
	m, ok := errorMappings[errutil.Code(err)]
	if !ok {
		m = systemErrorMapping
	}

	description := "internal error"
	if ok && m.code != CodeSystemError {
		description = err.Error()
	} else {
		errutil.LogErrorContext(c.Request.Context(), loggerFrom(c), "request failed", err)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(m.status, Response{
		Code:        m.code,
		Message:     m.message,
		Description: description,
	})
}
