package server

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ironsheep/label-crop-mcp/internal/batch"
	"github.com/ironsheep/label-crop-mcp/internal/detection"
	apperrors "github.com/ironsheep/label-crop-mcp/internal/errors"
	"github.com/ironsheep/label-crop-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "label_detect", "label_crop").
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
// Validation errors in the arguments use -32602.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	log := s.log.WithField("tool", params.Name)
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		log.WithError(err).Warn("tool failed")
		if apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	log.Debug("tool completed")

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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "label_detect":
		return s.handleLabelDetect(args)
	case "label_crop":
		return s.handleLabelCrop(ctx, args)
	case "label_edge_map":
		return s.handleLabelEdgeMap(args)
	case "label_batch":
		return s.handleLabelBatch(ctx, args)
	default:
		return nil, apperrors.NewNotFoundError("unknown tool: "+name, "")
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

// decodeArgs unmarshals tool arguments, treating absent arguments as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return apperrors.NewValidationError("invalid arguments", err)
	}
	return nil
}

func requirePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return apperrors.NewValidationError("path is required", nil)
	}
	return nil
}

// detectionOverrides are the optional threshold arguments shared by tools.
type detectionOverrides struct {
	EdgeThreshold    *float64 `json:"edge_threshold"`
	MinSize          *int     `json:"min_size"`
	MaxAspectRatio   *float64 `json:"max_aspect_ratio"`
	OverlapThreshold *float64 `json:"overlap_threshold"`
}

// apply returns base with every set override applied, validated.
func (o detectionOverrides) apply(base detection.Options) (detection.Options, error) {
	if o.EdgeThreshold != nil {
		base = base.WithEdgeThreshold(*o.EdgeThreshold)
	}
	if o.MinSize != nil {
		base = base.WithMinSize(*o.MinSize)
	}
	if o.MaxAspectRatio != nil {
		base = base.WithMaxAspectRatio(*o.MaxAspectRatio)
	}
	if o.OverlapThreshold != nil {
		base = base.WithOverlapThreshold(*o.OverlapThreshold)
	}
	if err := base.Validate(); err != nil {
		return base, apperrors.NewValidationError("invalid detection arguments", err)
	}
	return base, nil
}

// === Detection Handlers ===

type labelDetectArgs struct {
	Path string `json:"path"`
	detectionOverrides
	Preview bool `json:"preview"`
}

// DetectedBox is a detection box with its reading-order ordinal.
type DetectedBox struct {
	Ordinal int `json:"ordinal"`
	detection.BoundingBox
}

// DetectResult is the label_detect response.
type DetectResult struct {
	Image      imaging.ImageInfo      `json:"image"`
	Candidates int                    `json:"candidates"`
	Resolved   int                    `json:"resolved"`
	Boxes      []DetectedBox          `json:"boxes"`
	Preview    *imaging.EncodedImage  `json:"preview,omitempty"`
	Options    map[string]interface{} `json:"options"`
}

func (s *Server) handleLabelDetect(args json.RawMessage) (interface{}, error) {
	var a labelDetectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}
	opts, err := a.apply(s.cfg.DetectionOptions())
	if err != nil {
		return nil, err
	}

	loaded, err := imaging.LoadFile(a.Path)
	if err != nil {
		return nil, err
	}

	det := detection.Detect(loaded.Image, opts)
	result := &DetectResult{
		Image:      loaded.Info,
		Candidates: det.Candidates,
		Resolved:   det.Resolved,
		Boxes:      make([]DetectedBox, len(det.Boxes)),
		Options: map[string]interface{}{
			"edge_threshold":    opts.EdgeThreshold,
			"min_size":          opts.MinSize,
			"max_aspect_ratio":  opts.MaxAspectRatio,
			"overlap_threshold": opts.OverlapThreshold,
		},
	}
	for i, b := range det.Boxes {
		result.Boxes[i] = DetectedBox{Ordinal: i + 1, BoundingBox: b}
	}

	if a.Preview {
		overlay := imaging.DrawBoxes(loaded.Image, det.Boxes, imaging.DefaultOverlayColor, 3)
		enc, err := imaging.EncodePNG(overlay)
		if err != nil {
			return nil, err
		}
		result.Preview = enc
	}
	return result, nil
}

type labelEdgeMapArgs struct {
	Path          string   `json:"path"`
	EdgeThreshold *float64 `json:"edge_threshold"`
}

func (s *Server) handleLabelEdgeMap(args json.RawMessage) (interface{}, error) {
	var a labelEdgeMapArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}
	opts, err := detectionOverrides{EdgeThreshold: a.EdgeThreshold}.apply(s.cfg.DetectionOptions())
	if err != nil {
		return nil, err
	}

	loaded, err := imaging.LoadFile(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EdgeMapPreview(loaded.Image, opts)
}

// === Cropping Handlers ===

type labelCropArgs struct {
	Path string `json:"path"`
	detectionOverrides
	OutputDir     string `json:"output_dir"`
	IncludeImages bool   `json:"include_images"`
	Margin        *int   `json:"margin"`
	Fallback      *bool  `json:"fallback"`
}

// CropEntry is one crop in a label_crop response.
type CropEntry struct {
	batch.CropRecord
	Image *imaging.EncodedImage `json:"image,omitempty"`
}

// CropResult is the label_crop response.
type CropResult struct {
	Source     string        `json:"source"`
	Outcome    batch.Outcome `json:"outcome"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Candidates int           `json:"candidates"`
	Degenerate int           `json:"degenerate"`
	Crops      []CropEntry   `json:"crops"`
	Error      string        `json:"error,omitempty"`
}

func (s *Server) handleLabelCrop(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a labelCropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}

	opts := batch.OptionsFromConfig(s.cfg)
	det, err := a.apply(opts.Detection)
	if err != nil {
		return nil, err
	}
	opts.Detection = det
	opts.OutputDir = a.OutputDir
	opts.KeepImages = a.IncludeImages
	if a.Margin != nil {
		opts.Crop.Margin = *a.Margin
	}
	if a.Fallback != nil {
		opts.FallbackWholeImage = *a.Fallback
	}
	if err := opts.Crop.Validate(); err != nil {
		return nil, apperrors.NewValidationError("invalid crop arguments", err)
	}

	res, err := batch.NewProcessor(opts).ProcessFile(ctx, a.Path)
	if err != nil {
		return nil, err
	}

	out := &CropResult{
		Source:     res.Source,
		Outcome:    res.Outcome,
		Width:      res.Width,
		Height:     res.Height,
		Candidates: res.Candidates,
		Degenerate: res.Degenerate,
		Crops:      make([]CropEntry, len(res.Crops)),
		Error:      res.Error,
	}
	for i, rec := range res.Crops {
		out.Crops[i].CropRecord = rec
		if i < len(res.Images) {
			enc, err := imaging.EncodeJPEG(res.Images[i].Image, opts.Crop.JPEGQuality)
			if err != nil {
				return nil, err
			}
			out.Crops[i].Image = enc
		}
	}
	return out, nil
}

type labelBatchArgs struct {
	Paths     []string `json:"paths"`
	Dir       string   `json:"dir"`
	OutputDir string   `json:"output_dir"`
	Archive   string   `json:"archive"`
	Fallback  *bool    `json:"fallback"`
	Limit     *int     `json:"limit"`
}

func (s *Server) handleLabelBatch(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a labelBatchArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	inputs := append([]string{}, a.Paths...)
	if a.Dir != "" {
		inputs = append(inputs, a.Dir)
	}
	if len(inputs) == 0 {
		return nil, apperrors.NewValidationError("paths or dir is required", nil)
	}
	if strings.ContainsAny(a.Archive, `/\`) {
		return nil, apperrors.NewValidationError("archive must be a plain file name", nil)
	}

	opts := batch.OptionsFromConfig(s.cfg)
	if a.OutputDir != "" {
		opts.OutputDir = a.OutputDir
	}
	if a.Archive != "" {
		opts.Archive = a.Archive
	}
	if a.Fallback != nil {
		opts.FallbackWholeImage = *a.Fallback
	}
	if a.Limit != nil {
		if *a.Limit < 0 {
			return nil, apperrors.NewValidationError("limit must be >= 0", nil)
		}
		opts.Limit = *a.Limit
	}

	files, err := batch.CollectInputs(inputs)
	if err != nil {
		return nil, err
	}
	return batch.NewProcessor(opts).ProcessBatch(ctx, files)
}
