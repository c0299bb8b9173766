// Package mocks provides mock implementations for testing the evolvedu client.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the
// interfaces the gateway and account flows depend on.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	notifier := mocks.NewMockNotifier(ctrl)
//	notifier.EXPECT().Error("Session expired. Please login again.").Times(1)
package mocks

// Generate mock for Notifier interface from internal/notify package.
// This creates MockNotifier with methods for all Notifier interface methods:
// Success, Error, Info
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=notifier_mock.go github.com/felixgeelhaar/evolvedu/internal/notify Notifier

// Generate mock for TokenStore interface from internal/platform package.
// This creates MockTokenStore with methods for all TokenStore interface methods:
// Token, Clear
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=token_store_mock.go github.com/felixgeelhaar/evolvedu/internal/platform TokenStore

// Generate mock for Gateway interface from internal/account package.
// This creates MockGateway with methods for all Gateway interface methods:
// Login, Register, Profile, UpdateProfile, ChangePassword
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=gateway_mock.go github.com/felixgeelhaar/evolvedu/internal/account Gateway
