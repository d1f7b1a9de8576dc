// Package livecue runs a live RTMP feed through the transcoding platform and
// injects timed-metadata cue points into the stream while the feed lasts.
package livecue
