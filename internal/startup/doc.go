// Package startup handles application configuration and startup logging
// for the gallery builder: environment-variable parsing with defaults,
// build information injected at link time, and the startup banner and
// route log.
package startup
