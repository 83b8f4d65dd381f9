// Package layerfixture provides test-double Layer and Stack
// implementations for exercising the engine without a real asset
// resolver or scene-description parser, both explicitly out of scope for
// this module. Fixtures are authored directly in Go or loaded from small
// YAML documents; neither path touches production code paths, since
// layer.Layer and layer.Stack are pure interfaces the engine only ever
// calls through.
package layerfixture
