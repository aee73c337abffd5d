// Package application provides the appcfg command's initialization and run
// loop. It wires the config loader, output encoding, dotenv loading and the
// fsnotify-based watch mode, keeping the main package focused on CLI parsing.
package application
