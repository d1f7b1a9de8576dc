// Package services holds the error taxonomy shared by the remote API
// clients, plus the per-service client packages underneath it. Clients
// return errors tagged with the exported sentinels so callers can classify
// failures with errors.Is instead of inspecting strings.
package services
