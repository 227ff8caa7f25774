package moderation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fixmyward/fixmyward/internal/pkg/apperror"
	"github.com/gofiber/fiber/v2/log"
)

// DefaultTimeout bounds a single classifier call.
const DefaultTimeout = 20 * time.Second

// Image is the photographic payload sent for classification.
type Image struct {
	Data     []byte
	MIMEType string
}

// Classifier asks an external service whether a submission shows a civic issue.
type Classifier interface {
	Classify(ctx context.Context, img Image, description string) (Verdict, error)
}

// Gate screens submissions before they are stored. It never fails because of the classifier:
// every classifier error or timeout becomes the fallback admission.
type Gate struct {
	classifier Classifier
	timeout    time.Duration
}

// NewGate creates a gate. A nil classifier makes every evaluation fall open.
func NewGate(classifier Classifier, timeout time.Duration) *Gate {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gate{classifier: classifier, timeout: timeout}
}

// Classify performs one bounded classifier call. There is no retry.
func (g *Gate) Classify(ctx context.Context, img Image, description string) Outcome {
	if g.classifier == nil {
		return Unavailable(errors.New("no classifier configured"))
	}

	cctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	v, err := g.classifier.Classify(cctx, img, description)
	if err != nil {
		return Unavailable(err)
	}
	return Classified(v)
}

// Evaluate validates the inputs and returns the admission decision.
// Only invalid input produces an error.
func (g *Gate) Evaluate(ctx context.Context, img Image, description string) (Verdict, error) {
	if len(img.Data) == 0 {
		return Verdict{}, apperror.Validation("an image is required")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return Verdict{}, apperror.Validation("a description is required")
	}

	outcome := g.Classify(ctx, img, description)
	if outcome.IsUnavailable() {
		log.Warnf("[Moderation] Classifier unavailable, admitting without classification: %v", outcome.Cause())
	}
	return outcome.Decide(), nil
}
