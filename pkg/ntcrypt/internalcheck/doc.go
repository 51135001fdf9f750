// Package internalcheck holds static policy tests for the ntcrypt packages.
//
// The tests load every package under pkg/ntcrypt with go/packages and fail
// on constructs the library forbids: imports of math/rand, %x formatting
// that could leak key material into logs or errors, and == comparisons of
// byte slices.
//
// # Internal Use Only
//
// The package exports nothing. It exists so the policies run with go test.
package internalcheck
