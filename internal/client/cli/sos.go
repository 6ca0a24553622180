package cli

import (
	"context"
	"errors"
	"os"

	"oceanwatch/internal/client/models"
	"oceanwatch/internal/shared"
)

// SOS interactively collects an emergency alert. SOS alerts are text only;
// there is no photo prompt.
func (a *App) SOS(ctx context.Context) error {
	var fields models.SOSFields
	var err error

	prompts := []struct {
		dst    *string
		prompt string
	}{
		{&fields.Phone, "Contact phone"},
		{&fields.Description, "What is happening"},
		{&fields.Latitude, "Latitude"},
		{&fields.Longitude, "Longitude"},
		{&fields.LocationName, "Where are you (location description)"},
	}
	for _, p := range prompts {
		if *p.dst, err = GetSimpleText(a.reader, p.prompt, os.Stdout); err != nil {
			return err
		}
	}

	res, err := a.capture.CaptureSOS(ctx, fields, nil)
	if err != nil {
		if errors.Is(err, shared.ErrorValidation) {
			printlnFn("Invalid SOS:", err)
		} else {
			printlnFn("Failed to send SOS:", err)
		}
		return err
	}

	if res.Offline {
		printlnFn(res.Message)
	} else {
		printlnFn("SOS alert sent.")
	}
	return nil
}
