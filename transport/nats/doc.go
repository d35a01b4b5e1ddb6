// Package nats provides a request/reply session over a NATS connection.
package nats
