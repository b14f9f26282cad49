package httpapi

// maxBodyBytes controls the maximum allowed request body size for JSON
// endpoints. Default is 1 MiB.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// maxFeaturesBodyBytes bounds /transcribe request bodies, which carry dense
// float spectrograms and dwarf the token endpoints. Default is 64 MiB.
var maxFeaturesBodyBytes int64 = 64 << 20

// SetMaxFeaturesBodyBytes allows configuring the /transcribe body limit.
func SetMaxFeaturesBodyBytes(n int64) {
	if n <= 0 {
		maxFeaturesBodyBytes = 64 << 20
		return
	}
	maxFeaturesBodyBytes = n
}

// requestTimeout controls the maximum duration a batch request may run before
// timing out. Zero means no additional timeout beyond server/connection
// timeouts.
var requestTimeout = int64(0) // seconds

// SetRequestTimeoutSeconds sets the batch request timeout in seconds (0 disables).
func SetRequestTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	requestTimeout = sec
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
