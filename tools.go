//go:build tools

package tools

// Mocks under pkg/*/mocks are generated by mockery v2, used as an installed
// binary (see .mockery.yaml). Run: mockery (from the repository root).
