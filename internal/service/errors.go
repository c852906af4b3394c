package service

import (
	"errors"

	"github.com/JungUiJin/faicial-ai-test/internal/align"
	"github.com/JungUiJin/faicial-ai-test/internal/domain"
	"github.com/JungUiJin/faicial-ai-test/internal/landmark"
	"github.com/JungUiJin/faicial-ai-test/internal/match"
	"github.com/JungUiJin/faicial-ai-test/internal/provider/facemesh"
	"github.com/JungUiJin/faicial-ai-test/internal/provider/rekognition"
	"github.com/JungUiJin/faicial-ai-test/internal/region"
	"github.com/JungUiJin/faicial-ai-test/internal/visual"
)

// mapError converts pipeline and provider errors into domain.AppError. The
// original error stays reachable through Unwrap.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, landmark.ErrInsufficientLandmarks):
		return domain.ErrInvalidInput.WithError(err)
	case errors.Is(err, region.ErrEmptyRegion):
		return domain.ErrEmptyRegion.WithError(err)
	case errors.Is(err, region.ErrOutsideImage):
		return domain.ErrInvalidInput.WithError(err)
	case errors.Is(err, match.ErrWindowTooLarge):
		return domain.ErrRegionTooSmall.WithError(err)
	case errors.Is(err, visual.ErrDegenerateAxis):
		return domain.ErrDegenerateAxis.WithError(err)
	case errors.Is(err, align.ErrNoAlignment):
		return domain.ErrNoFaceDetected.WithError(err)
	case errors.Is(err, facemesh.ErrEmptyImage), errors.Is(err, rekognition.ErrInvalidImage):
		return domain.ErrInvalidImage.WithError(err)
	case errors.Is(err, facemesh.ErrUnavailable),
		errors.Is(err, facemesh.ErrInvalidResponse),
		errors.Is(err, facemesh.ErrMalformedLandmark),
		errors.Is(err, rekognition.ErrThrottled),
		errors.Is(err, rekognition.ErrInvalidCredentials):
		return domain.ErrServiceUnavailable.WithError(err)
	}

	var statusErr *facemesh.StatusError
	if errors.As(err, &statusErr) {
		return domain.ErrServiceUnavailable.WithError(err)
	}

	return domain.ErrInternal.WithError(err)
}
