// Package api handles incoming HTTP requests, request validation and
// response formatting. Handlers decode and validate input, call the account
// service and translate its errors into status codes through HandleAPIError.
package api
