package transcriber

import "errors"

// Hints attached to setup failures.
const (
	hintConfigure      = "run `profanity-silencer configure` or export the provider's API key variable"
	hintCheckKey       = "check the API key for this provider"
	hintModelsList     = "see `profanity-silencer models list`"
	hintInstallWhisper = "install whisper.cpp so whisper-cli is on PATH, or pick a cloud provider with --provider"
	hintLanguage       = "pick a language the model supports with --language"
)

// SetupError is a transcription failure caused by the local setup (missing
// key, model or binary) rather than by the audio. Retrying will not help;
// Hint says what to change.
type SetupError struct {
	Err  error
	Hint string
}

func (e *SetupError) Error() string {
	if e == nil || e.Err == nil {
		return "transcriber setup failed"
	}
	return e.Err.Error()
}

func (e *SetupError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newSetupError(err error, hint string) error {
	if err == nil {
		return nil
	}
	return &SetupError{Err: err, Hint: hint}
}

// IsSetupError reports whether err, or anything it wraps, is a SetupError.
func IsSetupError(err error) bool {
	var se *SetupError
	return errors.As(err, &se)
}

// SetupHint returns the remediation for a setup failure in err's chain, or ""
// when there is none.
func SetupHint(err error) string {
	var se *SetupError
	if errors.As(err, &se) {
		return se.Hint
	}
	return ""
}
