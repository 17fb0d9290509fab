//go:build linux

// Package dbushelper provides utilities to:
// - Store commonly used Bluez and oFono DBus constants.
// - Translate transport-assigned object paths to and from the canonical
//   relative form exposed to observers.
// - Decode DBus variant property maps into typed data.
// - Publish signal handler errors to the error event stream.
package dbushelper
