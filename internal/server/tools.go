package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// withPaletteFilter adds the exclude_special and exclude_translucent
// properties shared by every tool that matches against the palette.
func withPaletteFilter(props map[string]interface{}) map[string]interface{} {
	props["exclude_special"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Skip glow, fluorescent, translucent, metallic and pearlescent beads (default: false)",
	}
	props["exclude_translucent"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Skip translucent beads only (default: false)",
	}
	return props
}

func jobIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Job ID returned by bead_convert",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Images
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, transparency and file size. Loaded images are cached for later conversions.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Path to the image file (~ expands to the home directory)",
					},
				},
				"required": []string{"path"},
			},
		},

		// Palette
		{
			Name:        "bead_palette",
			Description: "List the bead colors available for matching, with ID, name, category, RGB, hex and L*a*b* values.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withPaletteFilter(map[string]interface{}{
					"category": map[string]interface{}{
						"type":        "string",
						"description": "Only list one category",
						"enum": []string{
							"neutral", "red", "pink", "yellow", "orange", "green", "blue",
							"purple", "brown", "luminous", "translucent", "metallic", "pearlescent",
						},
					},
				}),
			},
		},
		{
			Name:        "bead_palette_stats",
			Description: "Count palette entries by category and report the closest pair of colors under Delta E 76 and CIEDE2000, checked against the hybrid matching threshold.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": withPaletteFilter(map[string]interface{}{}),
			},
		},

		// Matching
		{
			Name:        "bead_match_color",
			Description: "Find the bead closest to a color by CIEDE2000, plus the next best alternatives.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withPaletteFilter(map[string]interface{}{
					"r": map[string]interface{}{
						"type":        "integer",
						"description": "Red channel (0-255)",
					},
					"g": map[string]interface{}{
						"type":        "integer",
						"description": "Green channel (0-255)",
					},
					"b": map[string]interface{}{
						"type":        "integer",
						"description": "Blue channel (0-255)",
					},
					"hex": map[string]interface{}{
						"type":        "string",
						"description": "Color as #RRGGBB, instead of r, g and b",
					},
					"k": map[string]interface{}{
						"type":        "integer",
						"description": "Number of ranked alternatives (default: 5)",
					},
				}),
			},
		},
		{
			Name:        "bead_sample_color",
			Description: "Sample an image pixel, or the average of a square around it, and find the closest bead. Transparent pixels are blended over white first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withPaletteFilter(map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Path to the image file",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based)",
					},
					"radius": map[string]interface{}{
						"type":        "integer",
						"description": "Average a (2*radius+1) square around the point (default: 0, single pixel)",
					},
					"k": map[string]interface{}{
						"type":        "integer",
						"description": "Number of ranked alternatives (default: 5)",
					},
				}),
				"required": []string{"path", "x", "y"},
			},
		},

		// Conversion
		{
			Name:        "bead_convert",
			Description: "Convert an image into a bead pattern. The image is optionally cropped and filtered, resized to the bead grid, and every cell is matched to the closest palette color. Returns a job ID for bead_color_list, bead_shopping_list, bead_preview and bead_pattern_sheet.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withPaletteFilter(map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Path to the image file",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Pattern width in beads (0 derives it from height and the aspect ratio)",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Pattern height in beads (0 derives it from width and the aspect ratio)",
					},
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"fit", "stretch", "fill"},
						"description": "fit keeps the aspect ratio inside width x height, stretch ignores it, fill covers and center-crops (default: fit)",
					},
					"crop": map[string]interface{}{
						"type":        "object",
						"description": "Source rectangle to convert, in pixels",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
						"required": []string{"x1", "y1", "x2", "y2"},
					},
					"crop_region": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
						"description": "Named source region, instead of crop",
					},
					"denoise": map[string]interface{}{
						"type":        "boolean",
						"description": "Apply a 3x3 median filter (default: false)",
					},
					"brightness": map[string]interface{}{
						"type":        "integer",
						"description": "Brightness adjustment -100..100 (default: 0)",
					},
					"contrast": map[string]interface{}{
						"type":        "integer",
						"description": "Contrast adjustment -100..100 (default: 0)",
					},
					"saturation": map[string]interface{}{
						"type":        "integer",
						"description": "Saturation adjustment -100..100 (default: 0)",
					},
					"sharpen": map[string]interface{}{
						"type":        "boolean",
						"description": "Sharpen before resizing (default: false)",
					},
					"line_art": map[string]interface{}{
						"type":        "boolean",
						"description": "Reduce the image to black outlines on white (default: false)",
					},
					"line_art_threshold": map[string]interface{}{
						"type":        "number",
						"description": "Sobel gradient threshold for line_art (default: 30)",
					},
					"max_colors": map[string]interface{}{
						"type":        "integer",
						"description": "Reduce the resized image to at most this many colors (median cut, 2-256) before matching; 0 keeps all",
					},
					"include_grid": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the per-cell bead IDs in the result (default: true)",
					},
				}),
				"required": []string{"path"},
			},
		},

		// Follow-ups on a stored conversion
		{
			Name:        "bead_color_list",
			Description: "List the colors used by a converted pattern, grouped by category with bead counts.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"job_id": jobIDProperty(),
				},
				"required": []string{"job_id"},
			},
		},
		{
			Name:        "bead_shopping_list",
			Description: "Estimate how many beads of each color to buy for a converted pattern, with spare margin, pack sizes and cost.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"job_id": jobIDProperty(),
					"spare_ratio": map[string]interface{}{
						"type":        "number",
						"description": "Extra beads as a fraction of the count (default: 0.1)",
					},
					"round_to": map[string]interface{}{
						"type":        "integer",
						"description": "Round suggested amounts up to a multiple of this (default: 100)",
					},
					"pack_sizes": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "integer"},
						"description": "Ascending pack sizes (default: [200, 500, 1000, 2000])",
					},
					"unit_price": map[string]interface{}{
						"type":        "number",
						"description": "Price per bead (default: 0.05)",
					},
				},
				"required": []string{"job_id"},
			},
		},
		{
			Name:        "bead_preview",
			Description: "Render a converted pattern as a pegboard image, returned as base64 PNG or written to a file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"job_id": jobIDProperty(),
					"cell_size": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels per bead, 1-64 (default: 12)",
					},
					"style": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"square", "circle"},
						"description": "Bead shape (default: square)",
					},
					"show_grid": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw grid lines between beads (default: true)",
					},
					"major_every": map[string]interface{}{
						"type":        "integer",
						"description": "Darker grid line every N beads, 0 to disable (default: 10)",
					},
					"show_ids": map[string]interface{}{
						"type":        "boolean",
						"description": "Label beads with their color ID; needs cell_size >= 14 (default: false)",
					},
					"show_coordinates": map[string]interface{}{
						"type":        "boolean",
						"description": "Label major grid intersections with bead coordinates (default: false)",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Write the preview to this file instead of returning base64; the extension selects the format",
					},
				},
				"required": []string{"job_id"},
			},
		},
		{
			Name:        "bead_pattern_sheet",
			Description: "Render a converted pattern as a printable HTML sheet with the bead grid, color list and shopping list. Returns the HTML or writes it to a file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"job_id": jobIDProperty(),
					"title": map[string]interface{}{
						"type":        "string",
						"description": "Sheet heading (default: the image file name)",
					},
					"cell_size": map[string]interface{}{
						"type":        "integer",
						"description": "Bead size on the sheet in CSS pixels (default: 14)",
					},
					"show_ids": map[string]interface{}{
						"type":        "boolean",
						"description": "Print the color ID inside every bead (default: false)",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Write the sheet to this file instead of returning it",
					},
				},
				"required": []string{"job_id"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
