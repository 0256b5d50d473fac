// Package middleware provides the gin middleware of the HTTP bridge.
package middleware
