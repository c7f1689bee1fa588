// Package processor contains the command-line workflows of odialipi. It
// wires configuration into the transliteration client and runs single
// conversions, batch files and the GUI.
package processor
