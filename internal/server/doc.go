// Package server implements the MCP (Model Context Protocol) server for bead
// pattern tools.
//
// The server exposes palette lookup, color matching and photo-to-pattern
// conversion through JSON-RPC 2.0, so an assistant can turn an image into a
// fuse bead pattern, inspect it and plan the purchase.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Images:
//   - image_load: Load an image and get metadata
//
// Palette:
//   - bead_palette: List bead colors, optionally filtered
//   - bead_palette_stats: Category counts and closest color pairs
//
// Matching:
//   - bead_match_color: Closest bead for an RGB or hex color
//   - bead_sample_color: Closest bead for an image pixel or area
//
// Conversion:
//   - bead_convert: Crop, filter, resize and quantize an image
//
// Stored conversions:
//   - bead_color_list: Colors used, grouped by category
//   - bead_shopping_list: Purchase amounts, packs and cost
//   - bead_preview: Pegboard rendering as PNG
//   - bead_pattern_sheet: Printable HTML sheet with grid and lists
//
// # Conversions
//
// bead_convert runs the quantizer batch by batch and gives up once the
// configured timeout passes. A finished conversion is kept under a random job
// ID; the store holds a bounded number of jobs and drops the oldest first, so
// follow-up tools may report an expired job.
//
// # Image Caching
//
// Loaded images are cached by expanded path for the lifetime of the process.
// Files above the configured size limit are rejected before decoding.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.New(cfg).Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
