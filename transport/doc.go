// Package transport contains helpers applicable to all supported transports.
// Sessions for specific transports live in subpackages.
package transport
