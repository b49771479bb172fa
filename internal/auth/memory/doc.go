// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

// Package memory provides process-local implementations of the auth
// repositories, used for development and tests. Data does not survive a
// restart.
package memory
