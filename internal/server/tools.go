package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

// edgeProperties describes how edge pixels are selected from an image.
func edgeProperties() map[string]interface{} {
	return map[string]interface{}{
		"threshold_low": map[string]interface{}{
			"type":        "integer",
			"description": "Low hysteresis threshold (0-255). Defaults to the configured value (50)",
		},
		"threshold_high": map[string]interface{}{
			"type":        "integer",
			"description": "High hysteresis threshold (0-255). Defaults to the configured value (150)",
		},
		"sigma": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian smoothing radius before edge detection. 0 disables smoothing",
		},
		"region": map[string]interface{}{
			"type":        "string",
			"description": "Named region to search instead of the whole image",
			"enum":        []string{"full", "top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
		},
		"roi": map[string]interface{}{
			"type":        "object",
			"description": "Explicit region of interest; wins over region. (x1,y1) inclusive, (x2,y2) exclusive",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
	}
}

// ransacProperties describes the estimator arguments shared by all fitting tools.
func ransacProperties() map[string]interface{} {
	return map[string]interface{}{
		"residual_threshold": map[string]interface{}{
			"type":        "number",
			"description": "Largest distance, in pixels or point units, at which a point counts as an inlier",
		},
		"max_trials": map[string]interface{}{
			"type":        "integer",
			"description": "Maximum number of random samples to try",
		},
		"stop_probability": map[string]interface{}{
			"type":        "number",
			"description": "Stop early once an outlier-free sample has been drawn with this probability (0-1). 0 or 1 runs all trials",
		},
		"seed": map[string]interface{}{
			"type":        "integer",
			"description": "Random seed for reproducible results. 0 uses the clock",
		},
		"refit": map[string]interface{}{
			"type":        "boolean",
			"description": "Re-estimate the best model from all of its inliers",
		},
	}
}

func overlayProperties() map[string]interface{} {
	return map[string]interface{}{
		"overlay": map[string]interface{}{
			"type":        "boolean",
			"description": "Return a PNG with inliers, outliers and the fitted model drawn over the image",
			"default":     false,
		},
		"inlier_color": map[string]interface{}{
			"type":        "string",
			"description": "Hex color for inlier points (default #00C800; multiple fits use a palette)",
		},
		"outlier_color": map[string]interface{}{
			"type":        "string",
			"description": "Hex color for outlier points (default #FF0000)",
		},
		"model_color": map[string]interface{}{
			"type":        "string",
			"description": "Hex color for the fitted model (default #0064FF)",
		},
		"grid_spacing": map[string]interface{}{
			"type":        "integer",
			"description": "Draw a labelled coordinate grid every N pixels under the overlay, at least 10 apart. 0 disables it",
			"default":     0,
		},
	}
}

// properties merges property sets. Later sets win on duplicate names.
func properties(sets ...map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	for _, set := range sets {
		for k, v := range set {
			out[k] = v
		}
	}
	return out
}

func imageFitSchema(extra map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": properties(
			map[string]interface{}{"path": pathProperty},
			edgeProperties(),
			ransacProperties(),
			overlayProperties(),
			extra,
		),
		"required": []string{"path"},
	}
}

func pointsFitSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": properties(
			map[string]interface{}{
				"points": map[string]interface{}{
					"type":        "array",
					"description": description,
					"items": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "number"},
					},
				},
			},
			ransacProperties(),
		),
		"required": []string{"points"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Edge Extraction
		{
			Name:        "image_edge_detect",
			Description: "Run Canny edge detection and return the edge map as base64-encoded PNG. Use it to tune thresholds before fitting.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":           pathProperty,
					"threshold_low":  edgeProperties()["threshold_low"],
					"threshold_high": edgeProperties()["threshold_high"],
					"sigma":          edgeProperties()["sigma"],
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_edge_points",
			Description: "Count the edge pixels of an image or region, optionally listing their (x, y) coordinates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": properties(
					map[string]interface{}{"path": pathProperty},
					edgeProperties(),
					map[string]interface{}{
						"include_points": map[string]interface{}{
							"type":        "boolean",
							"description": "Return the coordinates, not just the count",
							"default":     false,
						},
						"max_points": map[string]interface{}{
							"type":        "integer",
							"description": "Maximum number of coordinates to return. Values <= 0 use the default of 1000",
							"default":     1000,
						},
					},
				),
				"required": []string{"path"},
			},
		},

		// Robust Fitting on Images
		{
			Name:        "image_fit_line",
			Description: "Fit one straight line to the edge pixels of an image with RANSAC, ignoring outlying edges. Returns the line, its angle, the inlier segment and consensus statistics.",
			InputSchema: imageFitSchema(nil),
		},
		{
			Name:        "image_fit_lines",
			Description: "Extract several straight lines from the edge pixels of an image. Each line's inliers are removed before the next fit.",
			InputSchema: imageFitSchema(map[string]interface{}{
				"count": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of lines to extract. Defaults to the configured value (4)",
				},
				"min_inliers": map[string]interface{}{
					"type":        "integer",
					"description": "Stop when the best remaining line has fewer inliers. Defaults to the configured value (10)",
				},
			}),
		},
		{
			Name:        "image_fit_circle",
			Description: "Fit a circle to the edge pixels of an image with RANSAC. Returns center, radius, arc coverage and consensus statistics.",
			InputSchema: imageFitSchema(nil),
		},

		// Robust Fitting on Points
		{
			Name:        "points_fit_line",
			Description: "Fit a line to caller-supplied points of any dimension with RANSAC. Returns the line and a per-point inlier mask.",
			InputSchema: pointsFitSchema("Points as coordinate arrays, e.g. [[x, y], ...] or [[x, y, z], ...]"),
		},
		{
			Name:        "points_fit_circle",
			Description: "Fit a circle to caller-supplied 2-D points with RANSAC. Returns the circle and a per-point inlier mask.",
			InputSchema: pointsFitSchema("Points as [[x, y], ...]"),
		},

		// Analysis Helpers
		{
			Name:        "image_check_alignment",
			Description: "Check whether points lie on one line, and whether that line is horizontal or vertical, within a tolerance. Stray points are reported instead of skewing the result.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": properties(
					map[string]interface{}{
						"points": map[string]interface{}{
							"type":        "array",
							"description": "Points to check",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"x": map[string]interface{}{"type": "number"},
									"y": map[string]interface{}{"type": "number"},
								},
								"required": []string{"x", "y"},
							},
						},
						"tolerance": map[string]interface{}{
							"type":        "number",
							"description": "Pixel tolerance for alignment. Default from detection.alignmentTolerance (5)",
							"default":     5,
						},
						"seed": ransacProperties()["seed"],
					},
				),
				"required": []string{"points"},
			},
		},
	}
}
