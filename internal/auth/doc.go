// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

// Package auth authenticates admin users.
//
// There are at most two local accounts, both from configuration: the admin
// and an optional staff account. Passwords are bcrypt-hashed once at startup
// and never kept in clear text after that.
//
// A successful login yields an HS256 JWT carrying the username and role. The
// token is returned in the response body and set as the HTTP-only
// guesthouse_token cookie; Middleware.Authenticate accepts either the cookie
// or an "Authorization: Bearer" header and stores the Claims in the request
// context for the authorization layer.
package auth
