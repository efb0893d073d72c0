// Package watcher keeps the served manifest current by watching the media
// directory and the override document for changes.
//
// Every relevant event triggers a full rebuild after a short debounce;
// there is no incremental rebuild, so a burst of file copies collapses
// into one build.
package watcher
