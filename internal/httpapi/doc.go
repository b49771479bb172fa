// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

// Package httpapi exposes the auth service over HTTP.
//
// Every response uses the same JSON envelope:
//
//	{"code": 0, "data": ..., "message": "ok", "description": ""}
//
// code is a business status (see the Code constants); the HTTP status is
// derived from it. The session is carried in an HttpOnly cookie whose value
// is an opaque ID issued on the first successful login.
package httpapi
