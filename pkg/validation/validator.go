package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxElementIDLength = 64
	MaxNameLength      = 255
	MaxAttributes      = 200
	MaxAttributeKey    = 100

	// Regular expressions
	elementIDPattern = regexp.MustCompile(`^[0-9A-Za-z_$-]+$`)
	attrKeyPattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_ .:-]*$`)
)

func init() {
	validate = validator.New()
}

// Struct validates any struct using its validate tags and returns the
// first failure in a user-friendly format.
func Struct(v any) error {
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ElementRecord represents one building element as read from a model file,
// before it is assembled into the in-memory store.
type ElementRecord struct {
	ID         string         `json:"id" validate:"required,max=64"`
	Kind       string         `json:"kind" validate:"required,oneof=space door wall stair_flight storey opening"`
	Name       string         `json:"name" validate:"omitempty,max=255"`
	Attributes map[string]any `json:"attributes" validate:"omitempty,max=200"`
}

// RelationRecord represents one relation between two elements as read
// from a model file.
type RelationRecord struct {
	Kind   string `json:"kind" validate:"required,oneof=fills voids storey bounds"`
	FromID string `json:"from" validate:"required,max=64"`
	ToID   string `json:"to" validate:"required,max=64"`
}

// ValidateElementRecord validates an element before store assembly.
func ValidateElementRecord(rec *ElementRecord) error {
	if rec == nil {
		return errors.New("element record cannot be nil")
	}

	// Validate using struct tags
	if err := validate.Struct(rec); err != nil {
		return formatValidationError(err)
	}

	if err := ValidateElementID(rec.ID); err != nil {
		return fmt.Errorf("ID: %w", err)
	}

	// Additional attributes validation
	if len(rec.Attributes) > MaxAttributes {
		return fmt.Errorf("Attributes: maximum %d attributes allowed, got %d", MaxAttributes, len(rec.Attributes))
	}

	// Validate attribute keys
	for key := range rec.Attributes {
		if err := ValidateAttributeKey(key); err != nil {
			return fmt.Errorf("Attributes: %w", err)
		}
	}

	return nil
}

// ValidateRelationRecord validates a relation before store assembly.
func ValidateRelationRecord(rec *RelationRecord) error {
	if rec == nil {
		return errors.New("relation record cannot be nil")
	}

	// Validate using struct tags
	if err := validate.Struct(rec); err != nil {
		return formatValidationError(err)
	}

	if err := ValidateElementID(rec.FromID); err != nil {
		return fmt.Errorf("FromID: %w", err)
	}
	if err := ValidateElementID(rec.ToID); err != nil {
		return fmt.Errorf("ToID: %w", err)
	}
	if rec.FromID == rec.ToID {
		return fmt.Errorf("ToID: relation '%s' cannot link element '%s' to itself", rec.Kind, rec.FromID)
	}

	return nil
}

// ValidateElementID validates a source model identifier. Identifiers are
// opaque but must be printable and bounded so they survive as map keys,
// log fields, and report columns.
func ValidateElementID(id string) error {
	if id == "" {
		return errors.New("element id cannot be empty")
	}
	if len(id) > MaxElementIDLength {
		return fmt.Errorf("element id '%s' exceeds maximum length of %d characters", id, MaxElementIDLength)
	}
	if !elementIDPattern.MatchString(id) {
		return fmt.Errorf("element id '%s' contains invalid characters (only alphanumeric, underscore, dollar and hyphen allowed)", id)
	}
	return nil
}

// ValidateAttributeKey validates an attribute key. Source exports use
// spaces and dots inside quantity names, so those are allowed.
func ValidateAttributeKey(key string) error {
	if key == "" {
		return errors.New("attribute key cannot be empty")
	}
	if len(key) > MaxAttributeKey {
		return fmt.Errorf("attribute key '%s' exceeds maximum length of %d characters", key, MaxAttributeKey)
	}
	if !attrKeyPattern.MatchString(key) {
		return fmt.Errorf("attribute key '%s' is invalid (must start with letter or underscore, followed by alphanumeric, underscore, space, dot, colon or hyphen)", key)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
