package main

import _ "embed"

// defaultSkeleton is used when the configured template file does not exist.
//
//go:embed templates/index.html
var defaultSkeleton string
