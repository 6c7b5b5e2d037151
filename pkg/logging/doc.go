// Package logging provides subsystem-tagged logging for the typetalk client
// and CLI, built on the standard slog package.
//
// Every entry carries a subsystem attribute so output from the token manager,
// the request executor and the interactive authorizer can be told apart:
//
//	logging.Init(logging.LevelDebug, os.Stderr)
//	logging.Debug("APIRequest", "GET %s -> %d", path, status)
//	logging.Error("TokenManager", err, "refresh failed")
//
// Nothing is written before Init is called. Access tokens, refresh tokens and
// client secrets must never be passed to these functions.
package logging
