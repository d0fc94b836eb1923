// Package auth provides shared credential status types used by both
// the CLI and the MCP server for auth status reporting.
package auth
