// Package ingest runs the per-asset workflow: create the video record,
// submit the ingest request, then patch metadata, emailing the submitter at
// each failure or success point. Stages run strictly in order and a stage
// failure never unwinds a prior stage.
package ingest
