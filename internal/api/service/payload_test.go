package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printhub/internal/api/handler/request"
	"printhub/pkg"
)

func unmarshalPayload(t *testing.T, raw string) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return payload
}

func TestPayload_URLDefaults(t *testing.T) {
	raw, err := buildURLPayload("Front Desk", 42, "invoice.pdf",
		"https://docs.example.com/invoice.pdf", 1, false, "portrait", nil, nil)
	require.NoError(t, err)

	payload := unmarshalPayload(t, raw)
	assert.Equal(t, "Front Desk", payload["printer"])

	data := payload["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "pixel", data["type"])
	assert.Equal(t, "pdf", data["format"])
	assert.Equal(t, "file", data["flavor"])
	assert.Equal(t, "https://docs.example.com/invoice.pdf", data["data"])

	options := data["options"].(map[string]any)
	assert.Equal(t, true, options["ignoreTransparency"])
	assert.Equal(t, true, options["altFontRendering"])
	assert.Equal(t, "portrait", options["orientation"])

	config := payload["config"].(map[string]any)
	assert.Equal(t, "invoice.pdf - ID: 42", config["jobName"])
	assert.Equal(t, "mm", config["units"])

	margins := config["margins"].(map[string]any)
	for _, side := range []string{"top", "right", "bottom", "left"} {
		assert.Equal(t, 12.7, margins[side])
	}
}

func TestPayload_ExplicitMarginsOverrideDefaults(t *testing.T) {
	margins := &request.PrintMargins{
		Top:  pkg.ToPtr(5.0),
		Left: pkg.ToPtr(3.0),
	}
	raw, err := buildURLPayload("Front Desk", 1, "doc.pdf",
		"https://docs.example.com/doc.pdf", 1, false, "portrait", margins, nil)
	require.NoError(t, err)

	payload := unmarshalPayload(t, raw)
	got := payload["config"].(map[string]any)["margins"].(map[string]any)
	assert.Equal(t, 5.0, got["top"])
	assert.Equal(t, 3.0, got["left"])
	_, hasRight := got["right"]
	assert.False(t, hasRight, "unspecified sides are omitted when margins are explicit")
}

func TestPayload_Base64PixelDefaults(t *testing.T) {
	raw, err := buildBase64Payload("Front Desk", 7, request.PrintBase64DTO{
		PrinterID:      1,
		DocumentBase64: "aGVsbG8=",
		DocumentName:   "photo",
	})
	require.NoError(t, err)

	payload := unmarshalPayload(t, raw)
	data := payload["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "pixel", data["type"])
	assert.Equal(t, "image", data["format"])
	assert.Equal(t, "base64", data["flavor"])

	config := payload["config"].(map[string]any)
	assert.Equal(t, "photo - ID: 7", config["jobName"])
	_, hasMargins := config["margins"]
	assert.True(t, hasMargins)
}

func TestPayload_Base64WithPageSize(t *testing.T) {
	raw, err := buildBase64Payload("Label Printer", 3, request.PrintBase64DTO{
		PrinterID:      1,
		DocumentBase64: "aGVsbG8=",
		DocumentName:   "label",
		Size:           &request.PageSize{Width: 4, Height: 6, Units: "in"},
	})
	require.NoError(t, err)

	payload := unmarshalPayload(t, raw)
	config := payload["config"].(map[string]any)
	assert.Equal(t, "in", config["units"])

	size := config["size"].(map[string]any)
	assert.Equal(t, 4.0, size["width"])
	assert.Equal(t, 6.0, size["height"])
}

func TestDocumentNameFromURL(t *testing.T) {
	assert.Equal(t, "invoice.pdf", documentNameFromURL("https://docs.example.com/a/invoice.pdf"))
	assert.Equal(t, "report.pdf", documentNameFromURL("https://docs.example.com/report.pdf?token=abc"))
	assert.Equal(t, "document.pdf", documentNameFromURL(""))
}
