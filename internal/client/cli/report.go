package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"oceanwatch/internal/client/models"
	"oceanwatch/internal/shared"
)

// Report interactively collects a hazard report and routes it through the
// capture pipeline.
func (a *App) Report(ctx context.Context) error {
	var fields models.ReportFields
	var err error

	prompts := []struct {
		dst    *string
		prompt string
	}{
		{&fields.HazardType, "Hazard type (tsunami / cyclone / high_tide)"},
		{&fields.Severity, "Severity (low / medium / high)"},
		{&fields.Description, "Description"},
		{&fields.Latitude, "Latitude"},
		{&fields.Longitude, "Longitude"},
		{&fields.LocationName, "Location name"},
	}
	for _, p := range prompts {
		if *p.dst, err = GetSimpleText(a.reader, p.prompt, os.Stdout); err != nil {
			return err
		}
	}

	imagePath, err := GetSimpleText(a.reader, "Photo file path", os.Stdout)
	if err != nil {
		return err
	}
	image, err := loadImage(imagePath)
	if err != nil {
		printlnFn("Could not read photo:", err)
		return err
	}

	res, err := a.capture.CaptureReport(ctx, fields, image)
	if err != nil {
		if errors.Is(err, shared.ErrorValidation) {
			printlnFn("Invalid report:", err)
		} else {
			printlnFn("Submission error:", err, "- please retry")
		}
		return err
	}

	switch {
	case res.Offline:
		printlnFn(res.Message)
	case res.Rejected:
		printlnFn("Report rejected:", res.RejectionReason)
	default:
		printlnFn(res.Message)
	}
	return nil
}

func loadImage(path string) (*models.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var contentType string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		contentType = "image/png"
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".webp":
		contentType = "image/webp"
	default:
		return nil, fmt.Errorf("%w: %s", shared.ErrorImageType, filepath.Ext(path))
	}

	return &models.Image{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}
