package v1

// Config is the optional gziptool configuration file.
type Config struct {
	// Compression is the codec used when packing (default: gzip).
	Compression string `yaml:"compression,omitempty" json:"compression,omitempty" validate:"omitempty,oneof=gzip zstd lz4"`

	// ErrorLog is the file runtime errors are written to (default: error.log).
	ErrorLog string `yaml:"error_log,omitempty" json:"error_log,omitempty"`

	// Log configures logging.
	Log *LogSpec `yaml:"log,omitempty" json:"log,omitempty"`

	// S3 configures access to S3-compatible storage for s3:// locations.
	S3 *S3Spec `yaml:"s3,omitempty" json:"s3,omitempty"`
}

// LogSpec configures the logger.
type LogSpec struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level,omitempty" json:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

// S3Spec configures S3 access.
type S3Spec struct {
	Region         string         `yaml:"region,omitempty" json:"region,omitempty"`
	Endpoint       string         `yaml:"endpoint,omitempty" json:"endpoint,omitempty" validate:"omitempty,url"`
	ForcePathStyle bool           `yaml:"force_path_style,omitempty" json:"force_path_style,omitempty"`
	Credentials    *S3Credentials `yaml:"credentials,omitempty" json:"credentials,omitempty"`
}

// S3Credentials holds static credentials. Both fields are required when set.
type S3Credentials struct {
	AccessKeyID     string `yaml:"access_key_id" json:"access_key_id" validate:"required"`
	SecretAccessKey string `yaml:"secret_access_key" json:"secret_access_key" validate:"required"`
}
