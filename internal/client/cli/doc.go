// Package cli provides the staffql command-line client.
//
// Each invocation runs one command against the GraphQL endpoint:
//
//	signup                                 register a user (prompts for fields)
//	login                                  print a bearer token
//	employees [-designation D] [-department D]
//	upload-photo <file>                    upload a photo, print its URL
//
// The token for protected commands comes from -t or STAFFQL_TOKEN.
package cli
