package server

import (
	"encoding/json"
	"fmt"
	"image"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/image-ransac-mcp/internal/detection"
	"github.com/ironsheep/image-ransac-mcp/internal/imaging"
	"github.com/ironsheep/image-ransac-mcp/internal/ransac"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_fit_line").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Debug("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Fills omitted optional parameters from the server config
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/detection function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Edge Extraction
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)
	case "image_edge_points":
		return s.handleImageEdgePoints(args)

	// Robust Fitting on Images
	case "image_fit_line":
		return s.handleImageFitLine(args)
	case "image_fit_lines":
		return s.handleImageFitLines(args)
	case "image_fit_circle":
		return s.handleImageFitCircle(args)

	// Robust Fitting on Points
	case "points_fit_line":
		return s.handlePointsFitLine(args)
	case "points_fit_circle":
		return s.handlePointsFitCircle(args)

	// Analysis Helpers
	case "image_check_alignment":
		return s.handleImageCheckAlignment(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Shared Arguments ===

// ransacArgs are the estimator arguments accepted by every fitting tool.
// Pointers distinguish an omitted value from an explicit zero.
type ransacArgs struct {
	ResidualThreshold *float64 `json:"residual_threshold"`
	MaxTrials         *int     `json:"max_trials"`
	StopProbability   *float64 `json:"stop_probability"`
	Seed              *int64   `json:"seed"`
	Refit             *bool    `json:"refit"`
}

// options merges the arguments over the configured defaults. threshold is the
// default residual threshold for the model being fitted.
func (s *Server) options(a ransacArgs, threshold float64) detection.Options {
	rc := s.cfg.RANSAC
	opts := detection.Options{
		ResidualThreshold: threshold,
		MaxTrials:         rc.MaxTrials,
		StopProbability:   rc.StopProbability,
		Workers:           rc.Workers,
		Seed:              rc.Seed,
		Refit:             rc.Refit,
		Logger:            s.logger,
	}
	if a.ResidualThreshold != nil {
		opts.ResidualThreshold = *a.ResidualThreshold
	}
	if a.MaxTrials != nil {
		opts.MaxTrials = *a.MaxTrials
	}
	if a.StopProbability != nil {
		opts.StopProbability = *a.StopProbability
	}
	if a.Seed != nil {
		opts.Seed = *a.Seed
	}
	if a.Refit != nil {
		opts.Refit = *a.Refit
	}
	return opts
}

type edgeArgs struct {
	ThresholdLow  *int            `json:"threshold_low"`
	ThresholdHigh *int            `json:"threshold_high"`
	Sigma         *float64        `json:"sigma"`
	Region        string          `json:"region"`
	ROI           *imaging.Region `json:"roi"`
}

func (s *Server) edgeOptions(a edgeArgs) detection.EdgeOptions {
	ec := s.cfg.Edges
	opts := detection.EdgeOptions{
		ThresholdLow:  ec.ThresholdLow,
		ThresholdHigh: ec.ThresholdHigh,
		Sigma:         ec.Sigma,
		Region:        a.ROI,
		RegionName:    a.Region,
	}
	if a.ThresholdLow != nil {
		opts.ThresholdLow = *a.ThresholdLow
	}
	if a.ThresholdHigh != nil {
		opts.ThresholdHigh = *a.ThresholdHigh
	}
	if a.Sigma != nil {
		opts.Sigma = *a.Sigma
	}
	return opts
}

type overlayArgs struct {
	Overlay      bool   `json:"overlay"`
	InlierColor  string `json:"inlier_color"`
	OutlierColor string `json:"outlier_color"`
	ModelColor   string `json:"model_color"`
	GridSpacing  int    `json:"grid_spacing"`
}

// overlay renders fits over img when requested, or returns nil.
func (s *Server) overlay(a overlayArgs, img image.Image, points *mat.Dense, fits []detection.Fit) (*imaging.OverlayResult, error) {
	if !a.Overlay {
		return nil, nil
	}
	style := detection.DefaultOverlayStyle()
	style.Inlier = imaging.ColorOrDefault(a.InlierColor, style.Inlier)
	style.Outlier = imaging.ColorOrDefault(a.OutlierColor, style.Outlier)
	style.Model = imaging.ColorOrDefault(a.ModelColor, style.Model)
	style.GridSpacing = a.GridSpacing
	return detection.RenderOverlay(img, points, fits, img.Bounds(), style)
}

// imageFitArgs are the arguments of the image fitting tools.
type imageFitArgs struct {
	Path string `json:"path"`
	edgeArgs
	ransacArgs
	overlayArgs
}

// imagePoints loads the image and extracts its edge points.
func (s *Server) imagePoints(a imageFitArgs) (image.Image, *mat.Dense, image.Rectangle, error) {
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, image.Rectangle{}, err
	}
	points, rect, err := detection.EdgePoints(img, s.edgeOptions(a.edgeArgs))
	if err != nil {
		return nil, nil, image.Rectangle{}, err
	}
	n, _ := points.Dims()
	s.logger.Debug("extracted edge points", "path", a.Path, "region", rect, "points", n)
	return img, points, rect, nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Edge Extraction Handlers ===

type imageEdgeDetectArgs struct {
	Path string `json:"path"`
	edgeArgs
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a imageEdgeDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	e := s.edgeOptions(a.edgeArgs)
	return imaging.EdgeDetect(img, e.ThresholdLow, e.ThresholdHigh, e.Sigma)
}

const defaultMaxPoints = 1000

type imageEdgePointsArgs struct {
	Path string `json:"path"`
	edgeArgs
	IncludePoints bool `json:"include_points"`
	MaxPoints     int  `json:"max_points"`
}

// EdgePointsResult reports the edge pixels of an image region.
type EdgePointsResult struct {
	Count     int               `json:"count"`
	Region    imaging.Region    `json:"region"`
	Points    []detection.Point `json:"points,omitempty"`
	Truncated bool              `json:"truncated,omitempty"`
}

func (s *Server) handleImageEdgePoints(args json.RawMessage) (interface{}, error) {
	var a imageEdgePointsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MaxPoints <= 0 {
		a.MaxPoints = defaultMaxPoints
	}
	_, points, rect, err := s.imagePoints(imageFitArgs{Path: a.Path, edgeArgs: a.edgeArgs})
	if err != nil {
		return nil, err
	}

	n, _ := points.Dims()
	result := &EdgePointsResult{Count: n, Region: regionOf(rect)}
	if a.IncludePoints {
		limit := min(n, a.MaxPoints)
		result.Points = make([]detection.Point, limit)
		for i := 0; i < limit; i++ {
			result.Points[i] = detection.Point{X: points.At(i, 0), Y: points.At(i, 1)}
		}
		result.Truncated = limit < n
	}
	return result, nil
}

func regionOf(r image.Rectangle) imaging.Region {
	return imaging.Region{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// === Image Fitting Handlers ===

// LineResult is the result of image_fit_line.
type LineResult struct {
	*detection.LineFit
	Region  imaging.Region         `json:"region"`
	Overlay *imaging.OverlayResult `json:"overlay,omitempty"`
}

func (s *Server) handleImageFitLine(args json.RawMessage) (interface{}, error) {
	var a imageFitArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, points, rect, err := s.imagePoints(a)
	if err != nil {
		return nil, err
	}
	fit, err := detection.FitLine(points, s.options(a.ransacArgs, s.cfg.RANSAC.ResidualThreshold))
	if err != nil {
		return nil, err
	}
	s.logger.Debug("fitted line", "path", a.Path, "inliers", fit.InlierCount, "trials", fit.Trials)

	ov, err := s.overlay(a.overlayArgs, img, points, []detection.Fit{fit})
	if err != nil {
		return nil, err
	}
	return &LineResult{LineFit: fit, Region: regionOf(rect), Overlay: ov}, nil
}

type imageFitLinesArgs struct {
	imageFitArgs
	Count      *int `json:"count"`
	MinInliers *int `json:"min_inliers"`
}

// LinesResult is the result of image_fit_lines.
type LinesResult struct {
	*detection.LinesResult
	Region  imaging.Region         `json:"region"`
	Overlay *imaging.OverlayResult `json:"overlay,omitempty"`
}

func (s *Server) handleImageFitLines(args json.RawMessage) (interface{}, error) {
	var a imageFitLinesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	count, minInliers := s.cfg.Detection.MaxLines, s.cfg.Detection.MinInliers
	if a.Count != nil {
		count = *a.Count
	}
	if a.MinInliers != nil {
		minInliers = *a.MinInliers
	}

	img, points, rect, err := s.imagePoints(a.imageFitArgs)
	if err != nil {
		return nil, err
	}
	lines, err := detection.FitLines(points, count, minInliers, s.options(a.ransacArgs, s.cfg.RANSAC.ResidualThreshold))
	if err != nil {
		return nil, err
	}
	s.logger.Debug("fitted lines", "path", a.Path, "lines", lines.Count, "unassigned", lines.Unassigned)

	fits := make([]detection.Fit, len(lines.Lines))
	for i, l := range lines.Lines {
		fits[i] = l
	}
	ov, err := s.overlay(a.overlayArgs, img, points, fits)
	if err != nil {
		return nil, err
	}
	return &LinesResult{LinesResult: lines, Region: regionOf(rect), Overlay: ov}, nil
}

// CircleResult is the result of image_fit_circle.
type CircleResult struct {
	*detection.CircleFit
	Region  imaging.Region         `json:"region"`
	Overlay *imaging.OverlayResult `json:"overlay,omitempty"`
}

func (s *Server) handleImageFitCircle(args json.RawMessage) (interface{}, error) {
	var a imageFitArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, points, rect, err := s.imagePoints(a)
	if err != nil {
		return nil, err
	}
	fit, err := detection.FitCircle(points, s.options(a.ransacArgs, s.cfg.RANSAC.CircleResidualThreshold))
	if err != nil {
		return nil, err
	}
	s.logger.Debug("fitted circle", "path", a.Path, "inliers", fit.InlierCount, "coverage", fit.Coverage)

	ov, err := s.overlay(a.overlayArgs, img, points, []detection.Fit{fit})
	if err != nil {
		return nil, err
	}
	return &CircleResult{CircleFit: fit, Region: regionOf(rect), Overlay: ov}, nil
}

// === Point Fitting Handlers ===

type pointsFitArgs struct {
	Points [][]float64 `json:"points"`
	ransacArgs
}

// PointsLineResult is the result of points_fit_line.
type PointsLineResult struct {
	*detection.LineFit
	Mask []bool `json:"inliers"`
}

func (s *Server) handlePointsFitLine(args json.RawMessage) (interface{}, error) {
	var a pointsFitArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	points, err := ransac.NewPointSet(a.Points)
	if err != nil {
		return nil, err
	}
	fit, err := detection.FitLine(points, s.options(a.ransacArgs, s.cfg.RANSAC.ResidualThreshold))
	if err != nil {
		return nil, err
	}
	return &PointsLineResult{LineFit: fit, Mask: fit.Inliers}, nil
}

// PointsCircleResult is the result of points_fit_circle.
type PointsCircleResult struct {
	*detection.CircleFit
	Mask []bool `json:"inliers"`
}

func (s *Server) handlePointsFitCircle(args json.RawMessage) (interface{}, error) {
	var a pointsFitArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	points, err := ransac.NewPointSet(a.Points)
	if err != nil {
		return nil, err
	}
	fit, err := detection.FitCircle(points, s.options(a.ransacArgs, s.cfg.RANSAC.CircleResidualThreshold))
	if err != nil {
		return nil, err
	}
	return &PointsCircleResult{CircleFit: fit, Mask: fit.Inliers}, nil
}

// === Analysis Helper Handlers ===

type imageCheckAlignmentArgs struct {
	Points    []detection.Point `json:"points"`
	Tolerance *float64          `json:"tolerance"`
	Seed      *int64            `json:"seed"`
}

func (s *Server) handleImageCheckAlignment(args json.RawMessage) (interface{}, error) {
	var a imageCheckAlignmentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	tolerance := s.cfg.Detection.AlignmentTolerance
	if a.Tolerance != nil {
		tolerance = *a.Tolerance
	}
	opts := s.options(ransacArgs{Seed: a.Seed}, tolerance)
	return detection.CheckAlignment(a.Points, tolerance, opts)
}
