// Package headless registers an in-process adapter backend. Trees pushed to
// its adapters are kept in memory, which is what the simulator, the MCP server
// and the tests need. Import it for its side effects.
package headless
