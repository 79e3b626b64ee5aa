// Package app contains the core application logic. It defines the App struct,
// its configuration and the configure pipeline (load, resolve, stage, patch,
// generate), decoupled from any specific entrypoint like a CLI.
package app
