package validation

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

// New returns the process-wide validator instance.
func New() *validatorv10.Validate {
	return validatorv10.New(validatorv10.WithRequiredStructEnabled())
}

// DecodeJSON strictly decodes the request body into out: size-limited,
// unknown fields rejected, trailing garbage rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(out); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after json object")
	}
	return nil
}

// Fields flattens validator errors into a field -> rule map for the
// error envelope's details.
func Fields(err error) map[string]string {
	out := map[string]string{}

	var ve validatorv10.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Namespace()] = fe.Tag()
		}
		return out
	}

	out["error"] = err.Error()
	return out
}
