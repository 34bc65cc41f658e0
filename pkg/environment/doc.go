// Package environment carries the deployment environment (development,
// staging or production) through request contexts and into log records.
package environment
