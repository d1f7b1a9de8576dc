// Package watcher drives one locked sweep of the manifest bucket: list the
// bucket, parse each manifest, run every valid asset through the ingest
// workflow, and delete the manifest afterwards.
package watcher
