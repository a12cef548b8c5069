package request

// PrintDTO submits a job against a printer identified by its unique ID.
type PrintDTO struct {
	PrinterID   string       `json:"printerId" validate:"required"`
	DocumentURL string       `json:"documentUrl" validate:"required,url"`
	Options     PrintOptions `json:"options"`
}

type PrintOptions struct {
	Copies      int    `json:"copies" validate:"omitempty,min=1,max=999"`
	Duplex      bool   `json:"duplex"`
	Orientation string `json:"orientation" validate:"omitempty,oneof=portrait landscape"`
}

// PrintByIDDTO submits a job against a printer identified by numeric ID,
// with the full set of render options.
type PrintByIDDTO struct {
	PrinterID    uint            `json:"printerId" validate:"required"`
	DocumentURL  string          `json:"documentUrl" validate:"required,url"`
	DocumentName string          `json:"documentName"`
	Copies       int             `json:"copies" validate:"omitempty,min=1,max=999"`
	Duplex       bool            `json:"duplex"`
	Orientation  string          `json:"orientation" validate:"omitempty,oneof=portrait landscape reverse-portrait reverse-landscape"`
	Margins      *PrintMargins   `json:"margins"`
	Options      *RenderOptions  `json:"options"`
}

// PrintBase64DTO submits an inline document. A txt format with ESC/POS
// content is sent to the printer as raw commands.
type PrintBase64DTO struct {
	PrinterID      uint           `json:"printerId" validate:"required"`
	DocumentBase64 string         `json:"documentBase64" validate:"required"`
	DocumentName   string         `json:"documentName" validate:"required"`
	Type           string         `json:"type" validate:"omitempty,oneof=pixel raw"`
	Format         string         `json:"format" validate:"omitempty,oneof=pdf image html txt svg command"`
	Flavor         string         `json:"flavor" validate:"omitempty,oneof=base64 file plain"`
	Copies         int            `json:"copies" validate:"omitempty,min=1,max=999"`
	Duplex         bool           `json:"duplex"`
	Orientation    string         `json:"orientation" validate:"omitempty,oneof=portrait landscape"`
	Margins        *PrintMargins  `json:"margins"`
	Size           *PageSize      `json:"size"`
	Options        *RenderOptions `json:"options"`
}

type PrintMargins struct {
	Top    *float64 `json:"top"`
	Right  *float64 `json:"right"`
	Bottom *float64 `json:"bottom"`
	Left   *float64 `json:"left"`
}

type PageSize struct {
	Width  float64 `json:"width" validate:"required,gt=0"`
	Height float64 `json:"height" validate:"required,gt=0"`
	Units  string  `json:"units" validate:"omitempty,oneof=in mm cm"`
}

type RenderOptions struct {
	PageRanges         string   `json:"pageRanges"`
	IgnoreTransparency *bool    `json:"ignoreTransparency"`
	AltFontRendering   *bool    `json:"altFontRendering"`
	ScaleContent       *bool    `json:"scaleContent"`
	Rasterize          *bool    `json:"rasterize"`
	Interpolation      string   `json:"interpolation" validate:"omitempty,oneof=nearest bilinear bicubic lanczos"`
	ColorType          string   `json:"colorType" validate:"omitempty,oneof=color grayscale blackwhite"`
	Density            *float64 `json:"density" validate:"omitempty,min=72,max=1200"`
}

type UpdateJobStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=processing completed failed"`
	Error  string `json:"error"`
}
