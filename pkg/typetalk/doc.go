// Package typetalk is a client for the Typetalk messaging REST API.
//
// A Client holds one set of OAuth2 client credentials and the access and
// refresh tokens obtained with them. Tokens come from one of the grant flows
// or from Options:
//
//	client, err := typetalk.New(typetalk.Options{
//		ClientID:     id,
//		ClientSecret: secret,
//	})
//	if err != nil {
//		return err
//	}
//	if _, err := client.AccessTokenUsingClientCredentials(ctx); err != nil {
//		return err
//	}
//	topics, err := client.GetMyTopics(ctx)
//
// Every endpoint method returns the raw JSON body of a 200 response. Failures
// that reached the server are *APIError values; for 400 and 401 the error code
// and description come from the WWW-Authenticate header, so an expired token
// can be detected with IsInvalidToken and renewed with RefreshAccessToken.
// Nothing is retried and tokens are never written to disk.
//
// For the authorization-code flow, RequestAuthorization opens the
// authorization page, and AuthorizeInteractive runs the whole round trip
// through an Authorizer such as oauth.LoopbackAuthorizer.
package typetalk
