// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects, the credential
// store (defined in internal/store) and the auth primitives (internal/service/auth)
// to fulfill registration, login and profile lookups.
//
// Services receive dependencies through constructor injection and never depend
// on a specific storage implementation. Expected failures are reported with
// sentinel errors that the API layer maps to HTTP status codes.
package service
