// Package services implements the driving port interfaces.
// Services contain the application logic and orchestrate
// calls to driven ports (adapters).
//
// Console output goes to an injected io.Writer so commands and tests
// can capture it.
package services
