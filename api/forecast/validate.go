package forecast

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Year accepts a JSON number or a numeric string.
type Year int

func (y *Year) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		s = string(b)
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		*y = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("year must be an integer, got %q", s)
	}
	*y = Year(n)
	return nil
}

// PredictRequest is the body of POST /api/predict.
type PredictRequest struct {
	VehicleType string `json:"vehicleType" validate:"required"`
	Year        Year   `json:"year" validate:"required,gte=1900,lte=9999"`
}

func (r *PredictRequest) normalize() {
	r.VehicleType = strings.TrimSpace(r.VehicleType)
}

// validateRequest returns a readable message listing every failing field.
func validateRequest(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", jsonField(e.Field()), message(e)))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func jsonField(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + e.Param()
	case "lte":
		return "must be at most " + e.Param()
	default:
		return "failed " + e.Tag() + " validation"
	}
}
