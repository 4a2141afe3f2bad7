// Package shell is the interactive menu over the session controller.
//
// It stays deliberately thin: input lines are parsed into command values, a
// dispatch table maps each command to one controller operation, and results
// come back as plain data for display. No session or configuration state
// lives here.
package shell
