package signing

// CommandRunnerForTest exports commandRunner for testing.
type CommandRunnerForTest = commandRunner

// NewAuthenticodeSignerForTest builds a signer with injected platform hooks.
func NewAuthenticodeSignerForTest(
	goos string,
	lookPath func(string) (string, error),
	run CommandRunnerForTest,
) *AuthenticodeSigner {
	return &AuthenticodeSigner{goos: goos, lookPath: lookPath, run: run}
}
