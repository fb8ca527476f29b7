// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// Ports are the boundaries between the application core and the outside
// world. They define what the trigger engine needs from external systems
// without specifying how those needs are fulfilled.
//
// # Port Interfaces
//
//   - [Notifier]: receives activity-log events (the presentation layer)
//   - [FiredTracker]: remembers which reminders already fired
//   - [Dispatcher]: accepts playback requests without blocking
//   - [Mechanism]: one way of producing sound from a file
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters, internal/audio) implement them
// with concrete implementations (zerolog, external players, etc.).
package ports
