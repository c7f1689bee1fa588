// Package logging builds the zerolog loggers used for diagnostics across
// odialipi. User-facing CLI output is printed directly; everything else
// (request failures, discarded responses, clipboard problems) goes here.
package logging
