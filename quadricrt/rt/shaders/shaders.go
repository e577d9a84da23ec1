package shaders

import (
	_ "embed"
	"fmt"
	"regexp"
)

// QuadWGSL is the vertex stage shared by the trace and show programs.
//
//go:embed quad.wgsl
var QuadWGSL string

// TraceWGSL is the ray-tracing fragment stage, sized for the default array capacities.
//
//go:embed trace.wgsl
var TraceWGSL string

//go:embed show.wgsl
var ShowWGSL string

//go:embed textured.wgsl
var TexturedWGSL string

// Entry points used by every program.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

var (
	maxQuadricsDecl = regexp.MustCompile(`const MAX_QUADRICS: u32 = \d+u;`)
	maxLightsDecl   = regexp.MustCompile(`const MAX_LIGHTS: u32 = \d+u;`)
)

// Trace returns the trace fragment source with its uniform arrays resized.
func Trace(maxQuadrics, maxLights int) string {
	src := maxQuadricsDecl.ReplaceAllString(TraceWGSL, fmt.Sprintf("const MAX_QUADRICS: u32 = %du;", maxQuadrics))
	return maxLightsDecl.ReplaceAllString(src, fmt.Sprintf("const MAX_LIGHTS: u32 = %du;", maxLights))
}
