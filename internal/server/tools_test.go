package server

import (
	"testing"
)

func toolByName(t *testing.T, name string) Tool {
	t.Helper()
	for _, tool := range GetToolDefinitions() {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("tool %s not found", name)
	return Tool{}
}

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"image_load",
		"image_dimensions",
		"image_edge_detect",
		"image_edge_points",
		"image_fit_line",
		"image_fit_lines",
		"image_fit_circle",
		"points_fit_line",
		"points_fit_circle",
		"image_check_alignment",
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("tool count: got %d, want %d", len(tools), len(expectedTools))
	}

	seen := make(map[string]bool)
	for _, tool := range tools {
		if seen[tool.Name] {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		seen[tool.Name] = true
	}
	for _, name := range expectedTools {
		if !seen[name] {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			// Every required parameter must be declared.
			required, ok := tool.InputSchema["required"].([]string)
			if !ok || len(required) == 0 {
				t.Fatal("InputSchema should list required parameters")
			}
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required parameter %s has no schema", r)
				}
			}
		})
	}
}

func TestToolDefinitions_RequiredInput(t *testing.T) {
	tests := map[string]string{
		"image_load":            "path",
		"image_dimensions":      "path",
		"image_edge_detect":     "path",
		"image_edge_points":     "path",
		"image_fit_line":        "path",
		"image_fit_lines":       "path",
		"image_fit_circle":      "path",
		"points_fit_line":       "points",
		"points_fit_circle":     "points",
		"image_check_alignment": "points",
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			required, _ := toolByName(t, name).InputSchema["required"].([]string)
			if len(required) != 1 || required[0] != want {
				t.Errorf("required: got %v, want [%s]", required, want)
			}
		})
	}
}

func TestToolDefinitions_FittingArguments(t *testing.T) {
	fitting := []string{
		"image_fit_line", "image_fit_lines", "image_fit_circle",
		"points_fit_line", "points_fit_circle",
	}
	ransacArgs := []string{"residual_threshold", "max_trials", "stop_probability", "seed", "refit"}

	for _, name := range fitting {
		props := toolByName(t, name).InputSchema["properties"].(map[string]interface{})
		for _, arg := range ransacArgs {
			if _, ok := props[arg]; !ok {
				t.Errorf("%s: missing %s", name, arg)
			}
		}
	}

	for _, name := range []string{"image_fit_line", "image_fit_lines", "image_fit_circle"} {
		props := toolByName(t, name).InputSchema["properties"].(map[string]interface{})
		for _, arg := range []string{"threshold_low", "threshold_high", "sigma", "region", "roi", "overlay", "inlier_color"} {
			if _, ok := props[arg]; !ok {
				t.Errorf("%s: missing %s", name, arg)
			}
		}
	}

	props := toolByName(t, "image_fit_lines").InputSchema["properties"].(map[string]interface{})
	for _, arg := range []string{"count", "min_inliers"} {
		if _, ok := props[arg]; !ok {
			t.Errorf("image_fit_lines: missing %s", arg)
		}
	}
}

func TestToolDefinitions_Regions(t *testing.T) {
	props := toolByName(t, "image_fit_line").InputSchema["properties"].(map[string]interface{})
	regionProp, ok := props["region"].(map[string]interface{})
	if !ok {
		t.Fatal("region property should exist and be a map")
	}
	enum, ok := regionProp["enum"].([]string)
	if !ok {
		t.Fatal("region should have enum")
	}

	enumMap := make(map[string]bool)
	for _, e := range enum {
		enumMap[e] = true
	}
	for _, region := range []string{
		"full", "top-left", "top-right", "bottom-left", "bottom-right",
		"top-half", "bottom-half", "left-half", "right-half", "center",
	} {
		if !enumMap[region] {
			t.Errorf("Expected region '%s' not in enum", region)
		}
	}
}

func TestToolDefinitions_SharedSchemasAreIndependent(t *testing.T) {
	// Mutating one tool's schema must not leak into another.
	line := toolByName(t, "image_fit_line").InputSchema["properties"].(map[string]interface{})
	line["residual_threshold"] = nil

	circle := toolByName(t, "image_fit_circle").InputSchema["properties"].(map[string]interface{})
	if circle["residual_threshold"] == nil {
		t.Error("image_fit_circle.residual_threshold was cleared")
	}
}
