// Package num holds the scalar helpers used by the series engine:
// sign and factorial helpers, removable-singularity functions, a complex
// error function and a XorShift1024* random generator.
package num
