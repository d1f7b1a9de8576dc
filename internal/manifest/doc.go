// Package manifest parses the XML manifests uploaded to the watch bucket and
// validates the asset records they enumerate.
package manifest
