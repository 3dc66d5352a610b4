package tierfee

// This program generates mocks. It can be invoked by running:
//
// go generate ./...
//

//go:generate mockgen -source=hook/interfaces.go -package=hook -destination=hook/mock_interfaces.go
