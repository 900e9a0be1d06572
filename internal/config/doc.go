// Package config holds the persistent settings of pdf-batch-joiner.
//
// Settings are stored as JSON under the user config directory (see
// DefaultPath). A missing file is not an error: Load returns
// DefaultSettings, and keys absent from an existing file keep their
// default values.
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := settings.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	q := settings.QualityPreset()
//
// Intervals are stored in seconds as floats and exposed as time.Duration
// through the *Duration helpers. The CLI applies its flags on top of the
// loaded values before validating.
package config
