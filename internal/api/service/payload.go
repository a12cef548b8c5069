package service

import (
	"encoding/json"
	"fmt"

	"printhub/internal/api/handler/request"
	"printhub/pkg"
)

// QZ Tray document structure. The server assembles it once at submission;
// agents hand it to the local QZ bridge without interpreting it.

type qzPayload struct {
	Printer string       `json:"printer"`
	Data    []qzDataItem `json:"data"`
	Config  qzConfig     `json:"config"`
}

type qzDataItem struct {
	Type    string        `json:"type"`
	Format  string        `json:"format"`
	Flavor  string        `json:"flavor"`
	Data    string        `json:"data"`
	Options qzDataOptions `json:"options"`
}

type qzDataOptions struct {
	Orientation        string `json:"orientation,omitempty"`
	Copies             int    `json:"copies,omitempty"`
	Duplex             *bool  `json:"duplex,omitempty"`
	IgnoreTransparency *bool  `json:"ignoreTransparency,omitempty"`
	AltFontRendering   *bool  `json:"altFontRendering,omitempty"`
	PageRanges         string `json:"pageRanges,omitempty"`
	ScaleContent       *bool  `json:"scaleContent,omitempty"`
	Rasterize          *bool  `json:"rasterize,omitempty"`
	Interpolation      string `json:"interpolation,omitempty"`
	ColorType          string `json:"colorType,omitempty"`

	// Raw command options
	Language   string `json:"language,omitempty"`
	DotDensity string `json:"dotDensity,omitempty"`
}

type qzConfig struct {
	JobName       string     `json:"jobName"`
	Units         string     `json:"units,omitempty"`
	Margins       *qzMargins `json:"margins,omitempty"`
	Size          *qzSize    `json:"size,omitempty"`
	Density       *float64   `json:"density,omitempty"`
	ColorType     string     `json:"colorType,omitempty"`
	Interpolation string     `json:"interpolation,omitempty"`
	ScaleContent  *bool      `json:"scaleContent,omitempty"`
	Rasterize     *bool      `json:"rasterize,omitempty"`
}

type qzMargins struct {
	Top    *float64 `json:"top,omitempty"`
	Right  *float64 `json:"right,omitempty"`
	Bottom *float64 `json:"bottom,omitempty"`
	Left   *float64 `json:"left,omitempty"`
}

type qzSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// 12.7mm on every side (half an inch) when the caller specifies nothing.
const defaultMarginMM = 12.7

func defaultMargins() *qzMargins {
	return &qzMargins{
		Top:    pkg.ToPtr(defaultMarginMM),
		Right:  pkg.ToPtr(defaultMarginMM),
		Bottom: pkg.ToPtr(defaultMarginMM),
		Left:   pkg.ToPtr(defaultMarginMM),
	}
}

func marginsFrom(req *request.PrintMargins) *qzMargins {
	if req == nil {
		return defaultMargins()
	}
	return &qzMargins{
		Top:    req.Top,
		Right:  req.Right,
		Bottom: req.Bottom,
		Left:   req.Left,
	}
}

func qzJobName(documentName string, jobID uint) string {
	return fmt.Sprintf("%s - ID: %d", documentName, jobID)
}

func pixelDataOptions(orientation string, copies int, duplex bool, opts *request.RenderOptions) qzDataOptions {
	if orientation == "" {
		orientation = "portrait"
	}
	if copies < 1 {
		copies = 1
	}
	options := qzDataOptions{
		Orientation:        orientation,
		Copies:             copies,
		Duplex:             pkg.ToPtr(duplex),
		IgnoreTransparency: pkg.ToPtr(true),
		AltFontRendering:   pkg.ToPtr(true),
	}
	if opts == nil {
		return options
	}
	if opts.IgnoreTransparency != nil {
		options.IgnoreTransparency = opts.IgnoreTransparency
	}
	if opts.AltFontRendering != nil {
		options.AltFontRendering = opts.AltFontRendering
	}
	options.PageRanges = opts.PageRanges
	options.ScaleContent = opts.ScaleContent
	options.Rasterize = opts.Rasterize
	options.Interpolation = opts.Interpolation
	options.ColorType = opts.ColorType
	return options
}

func pixelConfig(documentName string, jobID uint, units string, size *request.PageSize, margins *request.PrintMargins, opts *request.RenderOptions) qzConfig {
	if units == "" {
		units = "mm"
	}
	config := qzConfig{
		JobName: qzJobName(documentName, jobID),
		Units:   units,
		Margins: marginsFrom(margins),
	}
	if size != nil {
		config.Size = &qzSize{Width: size.Width, Height: size.Height}
	}
	if opts != nil {
		config.Density = opts.Density
		config.ColorType = opts.ColorType
		config.Interpolation = opts.Interpolation
		config.ScaleContent = opts.ScaleContent
		config.Rasterize = opts.Rasterize
	}
	return config
}

// buildURLPayload renders the QZ document for a job whose content is fetched
// by the agent from a URL.
func buildURLPayload(printerName string, jobID uint, documentName, documentURL string, copies int, duplex bool, orientation string, margins *request.PrintMargins, opts *request.RenderOptions) (string, error) {
	payload := qzPayload{
		Printer: printerName,
		Data: []qzDataItem{{
			Type:    "pixel",
			Format:  "pdf",
			Flavor:  "file",
			Data:    documentURL,
			Options: pixelDataOptions(orientation, copies, duplex, opts),
		}},
		Config: pixelConfig(documentName, jobID, "mm", nil, margins, opts),
	}
	return marshalPayload(payload)
}

// buildBase64Payload renders the QZ document for inline content. Raw jobs
// carry printer commands and skip pixel options and margins entirely.
func buildBase64Payload(printerName string, jobID uint, req request.PrintBase64DTO) (string, error) {
	raw := req.Type == "raw"

	var item qzDataItem
	var config qzConfig
	if raw {
		format := req.Format
		if format == "" {
			format = "command"
		}
		flavor := req.Flavor
		if flavor == "" {
			flavor = "base64"
		}
		item = qzDataItem{
			Type:   "raw",
			Format: format,
			Flavor: flavor,
			Data:   req.DocumentBase64,
			Options: qzDataOptions{
				Language:   "ESCPOS",
				DotDensity: "double",
			},
		}
		config = qzConfig{
			JobName:      qzJobName(req.DocumentName, jobID),
			ScaleContent: pkg.ToPtr(false),
		}
	} else {
		format := req.Format
		if format == "" {
			format = "image"
		}
		flavor := req.Flavor
		if flavor == "" {
			flavor = "base64"
		}
		units := ""
		if req.Size != nil {
			units = req.Size.Units
		}
		item = qzDataItem{
			Type:    "pixel",
			Format:  format,
			Flavor:  flavor,
			Data:    req.DocumentBase64,
			Options: pixelDataOptions(req.Orientation, req.Copies, req.Duplex, req.Options),
		}
		config = pixelConfig(req.DocumentName, jobID, units, req.Size, req.Margins, req.Options)
	}

	payload := qzPayload{
		Printer: printerName,
		Data:    []qzDataItem{item},
		Config:  config,
	}
	return marshalPayload(payload)
}

func marshalPayload(payload qzPayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to serialize print payload: %w", err)
	}
	return string(data), nil
}
