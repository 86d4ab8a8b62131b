// Package camcore turns vector artwork and greyscale height maps into
// machine motion for CNC milling and laser engraving.
//
// Artwork is parsed with ParseSVG into a flattened document. VectorToolPath
// and ReliefToolPath synthesize tool paths ready to be written as G-code
// text; VectorObject and ReliefObject produce the structured program object
// directly. Encode and Decode convert between the two forms without any
// synthesis.
//
// The package logs nothing until SetLogger installs a logger.
package camcore
