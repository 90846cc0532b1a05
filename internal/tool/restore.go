// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/filesofpix/restoration/internal/restore"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MetadataRestoreRaster describes the restore_raster tool.
var MetadataRestoreRaster = &mcp.Tool{
	Name: "restore_raster",
	Description: "Recover a grayscale raster from a corrupted plain-text image. " +
		"Lines whose non-digit characters recur are treated as genuine rows; every other line is noise. " +
		"The digit runs of each genuine row are decoded as pixel intensities. " +
		"Returns the binary graymap header, the inferred width and height, and the raw pixels as base64.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"content"},
		"properties": map[string]interface{}{
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Corrupted image text, one row or noise line per line",
			},
			"strict": map[string]interface{}{
				"type":        "boolean",
				"description": "Fail when a genuine row decodes to a different width than the first row.",
			},
		},
	},
}

// InputRestoreRaster is the input for the RestoreRaster tool.
type InputRestoreRaster struct {
	Content string `json:"content"`
	Strict  bool   `json:"strict"`
}

// OutputRestoreRaster is the output for the RestoreRaster tool.
type OutputRestoreRaster struct {
	// Header is the graymap header line without its trailing newline.
	Header       string `json:"header"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	GenuineLines int    `json:"genuine_lines"`
	NoiseLines   int    `json:"noise_lines"`
	// Pixels is the row-major pixel data, base64 encoded.
	Pixels string `json:"pixels"`
}

// RestoreRaster runs the restoration pipeline over the provided content.
func RestoreRaster(ctx context.Context, _ *mcp.CallToolRequest, input InputRestoreRaster) (*mcp.CallToolResult, OutputRestoreRaster, error) {
	if input.Content == "" {
		return nil, OutputRestoreRaster{}, fmt.Errorf("content is required")
	}

	pipeline := restore.NewPipeline(restore.WithStrict(input.Strict))
	raster, res, err := pipeline.RunRaster(ctx, strings.NewReader(input.Content))
	if err != nil {
		return nil, OutputRestoreRaster{}, err
	}

	return nil, OutputRestoreRaster{
		Header:       strings.TrimSuffix(restore.Header(raster.Width, raster.Height), "\n"),
		Width:        raster.Width,
		Height:       raster.Height,
		GenuineLines: res.GenuineLines,
		NoiseLines:   res.NoiseLines,
		Pixels:       base64.StdEncoding.EncodeToString(raster.Pix),
	}, nil
}

// NewServer returns an MCP server with every restoration tool registered.
func NewServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "restoration", Version: version}, nil)
	mcp.AddTool(server, MetadataRestoreRaster, RestoreRaster)
	return server
}
