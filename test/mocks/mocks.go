// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/inventory_api.go -destination=inventory_api_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=cache_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/session_store.go -destination=session_store_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/report_archive.go -destination=report_archive_mock.go -package=mocks
