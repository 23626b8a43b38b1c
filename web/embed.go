package web

import "embed"

// StaticFS embeds the tracker page and its assets.
//
//go:embed static/*
var StaticFS embed.FS
