package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func edgeThresholdProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Sobel magnitude above which a pixel is an edge. Default from configuration (195)",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "label_detect",
			Description: "Detect printed label regions in a photograph. Returns the boxes in reading order (top-to-bottom rows, left-to-right within a row) with their 1-based ordinals. Optionally returns a PNG preview with the boxes drawn on the image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":           pathProperty(),
					"edge_threshold": edgeThresholdProperty(),
					"min_size": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum label width and height in pixels. Default 100",
					},
					"max_aspect_ratio": map[string]interface{}{
						"type":        "number",
						"description": "Largest accepted long side / short side ratio. Default 5",
					},
					"overlap_threshold": map[string]interface{}{
						"type":        "number",
						"description": "Fraction of the smaller box above which two detections are duplicates. Default 0.1",
					},
					"preview": map[string]interface{}{
						"type":        "boolean",
						"description": "Include a PNG of the image with detected boxes outlined",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "label_crop",
			Description: "Detect label regions and cut each one out as a captioned crop named <stem>_crop_NN. Writes JPEG files when output_dir is given; otherwise returns the crops inline.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":           pathProperty(),
					"edge_threshold": edgeThresholdProperty(),
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory to write crop JPEGs into",
					},
					"include_images": map[string]interface{}{
						"type":        "boolean",
						"description": "Return each crop as base64 JPEG. Always on when output_dir is not set",
						"default":     false,
					},
					"margin": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels added on each side of a box before cropping. Default 5",
					},
					"fallback": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the whole image as one crop when no label is found",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "label_edge_map",
			Description: "Return the binary edge map the detector works on as base64 PNG (edges white). Use it to tune edge_threshold: a label without a closed white outline will not be detected.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":           pathProperty(),
					"edge_threshold": edgeThresholdProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "label_batch",
			Description: "Crop labels from many images. Accepts explicit paths and/or a directory. Writes all crops, a manifest.json and optionally a ZIP archive into output_dir and returns the run summary. Images that fail to decode are recorded and skipped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Image files to process",
					},
					"dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory whose supported images are processed",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Destination directory. Default from configuration",
					},
					"archive": map[string]interface{}{
						"type":        "string",
						"description": "ZIP file name to bundle crops into, e.g. crops.zip",
					},
					"fallback": map[string]interface{}{
						"type":        "boolean",
						"description": "Emit the whole image when no label is found",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of images to process",
					},
				},
			},
		},
	}
}

// handleToolsList returns all available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
