// Package services holds the report capture pipeline and the sync engine,
// the two flows that route hazard reports between the local store and the
// backend.
package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"oceanwatch/internal/client/api"
	"oceanwatch/internal/client/connectivity"
	"oceanwatch/internal/client/models"
	"oceanwatch/internal/client/store"
	"oceanwatch/internal/logging"
	"oceanwatch/internal/shared"

	"github.com/golang/geo/s2"
	"github.com/google/uuid"
)

const deviceIDKey = "device_id"

// DefaultMaxImageBytes caps the accepted photo size at 10 MB, matching the
// backend's upload limit.
const DefaultMaxImageBytes = 10 << 20

// ConnectivitySource reports the current connectivity state; the watcher
// satisfies this.
type ConnectivitySource interface {
	Status() connectivity.Status
}

// MetadataStore provides transactional access to client bookkeeping values;
// the store satisfies this.
type MetadataStore interface {
	GetOrSetMeta(ctx context.Context, key string, gen func() []byte) ([]byte, error)
}

// CaptureResult tells the caller what happened to a captured report: either
// the backend's verdict (online path) or an offline-saved acknowledgment.
type CaptureResult struct {
	Offline         bool
	Rejected        bool
	RejectionReason string
	Message         string
}

// CaptureService validates and normalizes submitted reports, then routes
// them to direct submission or durable queuing depending on connectivity.
// It never falls back to queuing when an online submission fails; queuing is
// the offline path only.
type CaptureService struct {
	api           api.Client
	reports       ReportQueue
	sos           SOSQueue
	meta          MetadataStore
	conn          ConnectivitySource
	maxImageBytes int64
	log           logging.Logger
}

func NewCaptureService(client api.Client, st *store.Store, conn ConnectivitySource, maxImageBytes int64, log logging.Logger) *CaptureService {
	if maxImageBytes <= 0 {
		maxImageBytes = DefaultMaxImageBytes
	}
	return &CaptureService{
		api:           client,
		reports:       st.Reports,
		sos:           st.SOS,
		meta:          st,
		conn:          conn,
		maxImageBytes: maxImageBytes,
		log:           log,
	}
}

// CaptureReport validates the form values and the image, then either submits
// directly (online) or persists a PendingReport (offline). The offline path
// does no network I/O and returns as soon as the record is durable.
func (s *CaptureService) CaptureReport(ctx context.Context, fields models.ReportFields, image *models.Image) (*CaptureResult, error) {
	r, err := s.normalizeReport(ctx, fields, image)
	if err != nil {
		return nil, err
	}

	if s.conn.Status() == connectivity.Online {
		ack, err := s.api.SubmitReport(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("report submission failed: %w", err)
		}
		return &CaptureResult{
			Rejected:        ack.Rejected,
			RejectionReason: ack.RejectionReason,
			Message:         ack.Message,
		}, nil
	}

	id, err := s.reports.Put(ctx, r)
	if err != nil {
		s.log.Error(ctx, "failed to queue report offline", "error", err)
		return nil, fmt.Errorf("%w: %v", shared.ErrorStorageIO, err)
	}
	s.log.Info(ctx, "report saved offline", "id", id, "hazard_type", r.HazardType)
	return &CaptureResult{Offline: true, Message: "Saved offline. Will sync when online."}, nil
}

// CaptureSOS validates and routes an SOS alert. SOS alerts are text only:
// an attached image is rejected outright rather than silently dropped.
func (s *CaptureService) CaptureSOS(ctx context.Context, fields models.SOSFields, image *models.Image) (*CaptureResult, error) {
	if image != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrorValidation, shared.ErrorSOSImageDropped)
	}

	alert, err := s.normalizeSOS(ctx, fields)
	if err != nil {
		return nil, err
	}

	if s.conn.Status() == connectivity.Online {
		ack, err := s.api.SubmitSOS(ctx, alert)
		if err != nil {
			return nil, fmt.Errorf("sos submission failed: %w", err)
		}
		return &CaptureResult{Message: ack.Message}, nil
	}

	id, err := s.sos.Put(ctx, alert)
	if err != nil {
		s.log.Error(ctx, "failed to queue sos offline", "error", err)
		return nil, fmt.Errorf("%w: %v", shared.ErrorStorageIO, err)
	}
	s.log.Info(ctx, "sos saved offline", "id", id)
	return &CaptureResult{Offline: true, Message: "Saved offline. Will sync when online."}, nil
}

func (s *CaptureService) normalizeReport(ctx context.Context, fields models.ReportFields, image *models.Image) (*models.PendingReport, error) {
	if !models.KnownHazardType(fields.HazardType) {
		return nil, fmt.Errorf("%w: unknown hazard type %q", shared.ErrorValidation, fields.HazardType)
	}
	if !models.KnownSeverity(fields.Severity) {
		return nil, fmt.Errorf("%w: unknown severity %q", shared.ErrorValidation, fields.Severity)
	}

	lat, lng, err := parseCoordinates(fields.Latitude, fields.Longitude)
	if err != nil {
		return nil, err
	}

	if err := s.validateImage(image); err != nil {
		return nil, err
	}

	userID, err := s.deviceID(ctx)
	if err != nil {
		return nil, err
	}

	return &models.PendingReport{
		UserID:       userID,
		HazardType:   fields.HazardType,
		Severity:     fields.Severity,
		Description:  fields.Description,
		Latitude:     lat,
		Longitude:    lng,
		LocationName: fields.LocationName,
		Image:        image.Data,
		ImageType:    image.ContentType,
		QueuedAt:     time.Now(),
	}, nil
}

func (s *CaptureService) normalizeSOS(ctx context.Context, fields models.SOSFields) (*models.PendingSOS, error) {
	if len(fields.LocationName) < 3 {
		return nil, fmt.Errorf("%w: location description is required", shared.ErrorValidation)
	}

	lat, lng, err := parseCoordinates(fields.Latitude, fields.Longitude)
	if err != nil {
		return nil, err
	}

	userID, err := s.deviceID(ctx)
	if err != nil {
		return nil, err
	}

	return &models.PendingSOS{
		UserID:       userID,
		Phone:        fields.Phone,
		Description:  fields.Description,
		Latitude:     lat,
		Longitude:    lng,
		LocationName: fields.LocationName,
		QueuedAt:     time.Now(),
	}, nil
}

func (s *CaptureService) validateImage(image *models.Image) error {
	if image == nil || len(image.Data) == 0 {
		return fmt.Errorf("%w: %w", shared.ErrorValidation, shared.ErrorImageRequired)
	}
	switch image.ContentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		return fmt.Errorf("%w: %w (%s)", shared.ErrorValidation, shared.ErrorImageType, image.ContentType)
	}
	if int64(len(image.Data)) > s.maxImageBytes {
		return fmt.Errorf("%w: %w (%d bytes)", shared.ErrorValidation, shared.ErrorImageTooLarge, len(image.Data))
	}
	return nil
}

// deviceID returns the persistent device identifier, generating and storing
// one on first use.
func (s *CaptureService) deviceID(ctx context.Context) (string, error) {
	v, err := s.meta.GetOrSetMeta(ctx, deviceIDKey, func() []byte {
		return []byte(uuid.NewString())
	})
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func parseCoordinates(latStr, lngStr string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: latitude %q is not a number", shared.ErrorValidation, latStr)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: longitude %q is not a number", shared.ErrorValidation, lngStr)
	}
	if !s2.LatLngFromDegrees(lat, lng).IsValid() {
		return 0, 0, fmt.Errorf("%w: %w (%g, %g)", shared.ErrorValidation, shared.ErrorInvalidCoordinate, lat, lng)
	}
	return lat, lng, nil
}
