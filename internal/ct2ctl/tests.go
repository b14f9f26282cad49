package ct2ctl

import "context"

// runGoTests runs the stub-build test suite; no native library required.
func runGoTests() error {
	info("==== Run Go tests ====")
	return runCmdStreaming(context.Background(), "go", "test", "./...")
}

// runNativeTests runs the suite against the native engine. Requires the shim
// built by `ct2ctl install shim` and converted models on the host.
func runNativeTests() error {
	info("==== Run Go tests (native engine) ====")
	if !hasHostModels() {
		warn("no converted models under ~/models/ct2; native paths will skip")
	}
	return runCmdStreaming(context.Background(), "go", "test", "-tags", "ct2", "./...")
}
