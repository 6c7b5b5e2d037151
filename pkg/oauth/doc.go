// Package oauth implements the OAuth 2.0 pieces the Typetalk client needs.
//
// # Core Components
//
//   - Client: token endpoint requests for the client_credentials,
//     authorization_code and refresh_token grants, and authorization URL
//     construction
//   - Token / ErrorResponse: token endpoint success and error bodies
//   - AuthChallenge: parsed WWW-Authenticate header information, plus
//     ClassifyBearerError for the strict error/error_description extraction
//     used to classify API failures
//   - LoopbackAuthorizer: interactive authorization through the system browser
//     and a one-shot local callback server
//
// Grant requests are form encoded with the parameters in a fixed order and
// authenticate the client with client_id and client_secret in the body.
package oauth
