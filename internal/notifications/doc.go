// Package notifications emails the manifest submitter at each ingest
// workflow outcome through the configured local relay. Delivery is
// fire-and-forget: a missing recipient or relay failure never aborts a run.
package notifications
