package animation

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// DefaultModelID is the animation model used when no selector is given.
const DefaultModelID = 6

var validate = validator.New()

// GenerationRequest holds the user-supplied generation parameters.
type GenerationRequest struct {
	// Prompt describes the animation to generate.
	Prompt string
	// DurationSeconds is the clip length, 5 or 10.
	DurationSeconds int `validate:"oneof=5 10"`
	// InputImagePath optionally points to an image to animate.
	InputImagePath string
	// ModelID selects the animation model by numeric ID.
	ModelID *int
	// ModelName selects the animation model by name. Mutually exclusive with ModelID.
	ModelName string `validate:"excluded_with=ModelID"`
}

// Payload is the JSON body of POST /api/animation.
type Payload struct {
	Prompt             string `json:"prompt"`
	DurationSeconds    int    `json:"duration_seconds"`
	InputImageBase64   string `json:"input_image_base64"`
	AnimationModelID   *int   `json:"animation_model_id,omitempty"`
	AnimationModelName string `json:"animation_model_name,omitempty"`
}

// Validate checks the enumerated and mutually exclusive parameters.
// It returns ErrInvalidParameter or ErrConflictingParameter, duration first.
func (r GenerationRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}

	for _, fe := range verrs {
		if fe.Field() == "DurationSeconds" {
			return fmt.Errorf("%w: duration must be either 5 or 10 seconds, got %d", ErrInvalidParameter, r.DurationSeconds)
		}
	}
	for _, fe := range verrs {
		if fe.Field() == "ModelName" {
			return fmt.Errorf("%w: specify either model_id or model_name, not both", ErrConflictingParameter)
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidParameter, verrs.Error())
}

// Build validates the request and assembles the submission payload.
// The input image, if any, is read fully and base64 encoded; no network
// access happens here.
func (r GenerationRequest) Build() (Payload, error) {
	if err := r.Validate(); err != nil {
		return Payload{}, err
	}

	p := Payload{
		Prompt:          r.Prompt,
		DurationSeconds: r.DurationSeconds,
	}

	if r.InputImagePath != "" {
		data, err := os.ReadFile(r.InputImagePath) // #nosec G304 - path is chosen by the caller
		if err != nil {
			return Payload{}, fmt.Errorf("%w: read input image: %w", ErrIO, err)
		}
		p.InputImageBase64 = base64.StdEncoding.EncodeToString(data)
	}

	switch {
	case r.ModelID != nil:
		id := *r.ModelID
		p.AnimationModelID = &id
	case r.ModelName != "":
		p.AnimationModelName = r.ModelName
	default:
		id := DefaultModelID
		p.AnimationModelID = &id
	}

	return p, nil
}
