package soft

import (
	"github.com/gogpu/naga"
)

// compileWGSL validates WGSL source by translating it to SPIR-V.
// naga is the same front end the hardware drivers feed, so shaders
// accepted here behave identically on the wgpu driver.
func compileWGSL(source string) ([]byte, error) {
	return naga.Compile(source)
}
