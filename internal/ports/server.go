package ports

// Server defines the interface for a long-running network front end
type Server interface {
	// Start binds the listener and begins serving in the background
	Start() error

	// Stop gracefully shuts the server down
	Stop() error
}
