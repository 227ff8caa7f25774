package moderation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Fallback classification attached when the classifier is unavailable.
const (
	FallbackCategory = "Unknown"
	FallbackReason   = "Analysis bypassed due to server error."
)

// defaultRejectReason is used when the classifier rejects without saying why.
const defaultRejectReason = "The photo does not appear to show a civic issue."

// Verdict is the admission decision for one submission.
type Verdict struct {
	Admit    bool   `json:"admit"`
	Category string `json:"category"`
	Reason   string `json:"reason"`
	// Bypassed is set when the verdict came from the fail-open fallback.
	Bypassed bool `json:"bypassed"`
}

// FallbackVerdict is the fail-open admission.
func FallbackVerdict() Verdict {
	return Verdict{
		Admit:    true,
		Category: FallbackCategory,
		Reason:   FallbackReason,
		Bypassed: true,
	}
}

// Outcome is the result of asking the classifier: either a classification or unavailability.
type Outcome struct {
	verdict     Verdict
	unavailable error
}

// Classified wraps a verdict returned by the classifier.
func Classified(v Verdict) Outcome {
	return Outcome{verdict: v}
}

// Unavailable records that the classifier could not produce a verdict.
func Unavailable(cause error) Outcome {
	if cause == nil {
		cause = errors.New("classifier unavailable")
	}
	return Outcome{unavailable: cause}
}

// IsUnavailable reports whether the classifier failed.
func (o Outcome) IsUnavailable() bool {
	return o.unavailable != nil
}

// Cause returns the failure behind an Unavailable outcome.
func (o Outcome) Cause() error {
	return o.unavailable
}

// Decide collapses the outcome into an admission decision. Unavailability admits.
func (o Outcome) Decide() Verdict {
	if o.IsUnavailable() {
		return FallbackVerdict()
	}
	return o.verdict
}

// rawVerdict mirrors the classifier's wire shape.
type rawVerdict struct {
	IsValid  *bool   `json:"isValid"`
	Category *string `json:"category"`
	Reason   *string `json:"reason"`
}

// ParseVerdict decodes the classifier's reply. The reply must be exactly one JSON object with
// a boolean isValid and optional string category and reason; anything else is an error.
func ParseVerdict(text string) (Verdict, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Verdict{}, errors.New("empty classifier response")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.DisallowUnknownFields()

	var raw rawVerdict
	if err := dec.Decode(&raw); err != nil {
		return Verdict{}, fmt.Errorf("malformed classifier response: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Verdict{}, errors.New("malformed classifier response: trailing data")
	}
	if raw.IsValid == nil {
		return Verdict{}, errors.New("malformed classifier response: missing isValid")
	}

	v := Verdict{Admit: *raw.IsValid}
	if raw.Category != nil {
		v.Category = strings.TrimSpace(*raw.Category)
	}
	if raw.Reason != nil {
		v.Reason = strings.TrimSpace(*raw.Reason)
	}
	if !v.Admit && v.Reason == "" {
		v.Reason = defaultRejectReason
	}
	return v, nil
}
