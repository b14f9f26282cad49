//go:build !ct2

package ct2

// This stub stands in when the binary is built without the 'ct2' build tag.
// Engine constructors fail with a dependency error so the daemon and the
// pure-Go tests still build and run without the native library.

const nativeBuilt = false

// Available reports whether this binary was built with the native engine.
func Available() bool { return false }

// GetDeviceCount returns the number of devices of the given kind visible to
// the engine. Without the native build only the CPU is reported.
func GetDeviceCount(d Device) int {
	if d == CPU {
		return 1
	}
	return 0
}

func openTranslator(ModelSource, *nativeConfig) (nativeTranslator, error) {
	return nil, ErrDependencyUnavailable("ct2: binary built without the native engine (rebuild with -tags ct2)")
}

func openGenerator(ModelSource, *nativeConfig) (nativeGenerator, error) {
	return nil, ErrDependencyUnavailable("ct2: binary built without the native engine (rebuild with -tags ct2)")
}

func openWhisper(ModelSource, *nativeConfig) (nativeWhisper, error) {
	return nil, ErrDependencyUnavailable("ct2: binary built without the native engine (rebuild with -tags ct2)")
}
