// Package requestid tags every API request with an X-Request-ID and makes it
// available to handlers and log records.
package requestid
