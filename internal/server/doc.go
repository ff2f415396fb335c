// Package server implements the MCP (Model Context Protocol) server for robust
// model fitting on images and point sets.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Edge Extraction:
//   - image_edge_detect: Canny edge map as PNG
//   - image_edge_points: Count or list edge pixel coordinates
//
// Robust Fitting on Images:
//   - image_fit_line: One RANSAC line through the edge pixels
//   - image_fit_lines: Several lines, removing each line's inliers in turn
//   - image_fit_circle: One RANSAC circle through the edge pixels
//
// Robust Fitting on Points:
//   - points_fit_line: RANSAC line through N-dimensional points
//   - points_fit_circle: RANSAC circle through planar points
//
// Analysis Helpers:
//   - image_check_alignment: Check point alignment, reporting stray points
//
// Estimator arguments that a call omits are taken from the server's
// config.Config. The image fitting tools can also return an overlay PNG
// showing inliers, outliers and the fitted models.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(cfg, logger)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
