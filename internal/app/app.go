// Package app holds application-wide identifiers.
package app

// Name is the application name used for config and data directories
const Name = "punch"
