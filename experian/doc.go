// Package experian provides a client session for the Experian business and
// consumer credit APIs.
//
// A Client holds one set of application credentials and, after Login, one bearer
// token. Endpoint groups live in sub-packages (business, businessowners, sbcs and
// creditprofile) and are built from a Client, so every group shares the session:
//
//	logger := zerolog.New(os.Stdout)
//	client, err := experian.NewClient(
//		clientID,
//		clientSecret,
//		logger,
//		experian.WithSandbox(true),
//		experian.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	if _, err := client.Login(ctx, username, password); err != nil {
//		log.Fatal(err)
//	}
//
//	headers, err := business.New(client).Headers(ctx, business.BINRequest{
//		BIN:     "700000001",
//		Subcode: "0517614",
//	})
//
// # Error Handling
//
// Errors fall into two groups. Precondition errors are returned before any request
// is sent and can be detected with IsPrecondition:
//
//   - ErrConfiguration: missing client id or secret
//   - ErrValidation: missing login arguments or an unencodable request body
//   - ErrNotAuthenticated: an endpoint was called before Login
//
// Errors produced by a request carry what the server returned:
//
//   - *TransportError: network or timeout failure, wrapping the cause
//   - *AuthenticationError: the token endpoint answered without a token
//   - *DomainError: non-200 status, or a 200 body that reported failure
//
// DomainError.Body is the response body exactly as received.
//
// # Transport Security
//
// Certificate verification of the API origin is disabled unless
// WithTLSVerification(true) is given. NewClient logs a warning in that case.
package experian
