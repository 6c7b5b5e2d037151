// Package config loads the typetalk CLI configuration.
//
// Configuration is read from config.yaml in a single directory, by default
// ~/.config/typetalk, and layered as follows:
//
//  1. built-in defaults (GetDefaultConfig)
//  2. values from config.yaml, if the file exists
//  3. TYPETALK_* environment variables
//
// Command line flags are applied on top by the cmd package. Access and
// refresh tokens are never stored here.
//
// Example config.yaml:
//
//	clientId: my-client-id
//	clientSecret: my-client-secret
//	scope: topic.read,topic.post,my
//	timeout: 5s
//	output: table
package config
