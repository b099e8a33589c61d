package flora

import (
	"fmt"
	"strings"
)

// Issue is a single validation problem found in an untrusted payload.
type Issue struct {
	Kind    ErrorKind
	Message string
}

// ValidationError collects multiple validation issues
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid plant: unknown validation error"
	}
	if len(e.Issues) == 1 {
		return e.Issues[0].Message
	}
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.Message
	}
	return "plant validation errors: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Add(kind ErrorKind, format string, args ...any) {
	e.Issues = append(e.Issues, Issue{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

func (e *ValidationError) HasIssues() bool {
	return len(e.Issues) > 0
}

// HasKind reports whether any collected issue has the given kind.
func (e *ValidationError) HasKind(kind ErrorKind) bool {
	for _, issue := range e.Issues {
		if issue.Kind == kind {
			return true
		}
	}
	return false
}

// ValidatePlantConfig performs comprehensive validation of an untrusted
// PlantConfig. Every candidate part is checked against the closed
// vocabularies; a value outside its enumeration is rejected, never
// silently substituted. Pure function of its input.
func ValidatePlantConfig(cfg PlantConfig) error {
	err := &ValidationError{}

	if strings.TrimSpace(cfg.Name) == "" {
		err.Add(ErrMissingField, "plant name is required")
	}

	for i, pc := range cfg.Parts {
		prefix := fmt.Sprintf("part at index %d", i)

		if pc.Type == nil {
			err.Add(ErrMissingField, "%s: type is required", prefix)
		} else if !PartType(*pc.Type).Valid() {
			err.Add(ErrInvalidEnumValue, "%s: type %q is not a valid part type", prefix, *pc.Type)
		}

		if pc.Color == nil || strings.TrimSpace(*pc.Color) == "" {
			err.Add(ErrMissingField, "%s: color is required", prefix)
		}

		if pc.Size == nil {
			err.Add(ErrMissingField, "%s: size is required and must be numeric", prefix)
		} else if *pc.Size <= 0 {
			err.Add(ErrMissingField, "%s: size must be a positive number, got %v", prefix, *pc.Size)
		}

		if pc.Position == nil {
			err.Add(ErrMissingField, "%s: position is required", prefix)
		} else {
			if pc.Position.X == nil {
				err.Add(ErrMissingField, "%s: position is missing the x coordinate", prefix)
			}
			if pc.Position.Y == nil {
				err.Add(ErrMissingField, "%s: position is missing the y coordinate", prefix)
			}
		}

		if pc.GrowthRate != nil && !GrowthRate(*pc.GrowthRate).Valid() {
			err.Add(ErrInvalidEnumValue, "%s: growth rate %q is not a valid growth rate", prefix, *pc.GrowthRate)
		}

		if pc.Special != nil && !SpecialTrait(*pc.Special).Valid() {
			err.Add(ErrInvalidEnumValue, "%s: special trait %q is not a valid trait", prefix, *pc.Special)
		}
	}

	if err.HasIssues() {
		return err
	}
	return nil
}
