package blogreader

import "embed"

// EmbeddedAssets contains the static assets served under /public/:
// blogreader.js, style.css and favicon.svg.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
