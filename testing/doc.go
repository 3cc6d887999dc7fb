// Package testing provides shared test utilities for code built on querychain.
//
// The mocks subpackage provides a testify-based types.Client mock, fixtures
// builds pre-configured mocks for common scenarios and containers starts a
// MySQL server with testcontainers for integration tests.
//
// For lightweight fakes that record SQL text, see database/testing.
//
//	import (
//		"github.com/querychain/querychain/testing/mocks"
//		"github.com/querychain/querychain/testing/fixtures"
//	)
package testing
