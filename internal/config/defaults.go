package config

const (
	// DefaultOssecPath is the standard installation prefix.
	DefaultOssecPath = "/var/ossec"

	// DefaultValidatorTimeoutSeconds bounds a single validator run.
	DefaultValidatorTimeoutSeconds = 30

	// DefaultDebounceMillis coalesces editor write bursts.
	DefaultDebounceMillis = 500
)

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			OssecPath:            DefaultOssecPath,
			OssecConf:            "etc/ossec.conf",
			SharedDir:            "etc/shared",
			MultiGroupsDir:       "var/multigroups",
			InternalOptions:      "etc/internal_options.conf",
			LocalInternalOptions: "etc/local_internal_options.conf",
			TmpDir:               "tmp",
		},
		Validator: ValidatorConfig{
			Binary:         "bin/verify-agent-conf",
			TimeoutSeconds: DefaultValidatorTimeoutSeconds,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Watch: WatchConfig{
			DebounceMillis: DefaultDebounceMillis,
		},
	}
}
