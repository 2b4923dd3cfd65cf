/*
Package ports defines the driven ports (interfaces) for the turing engine.

These interfaces decouple the core logic from external implementations, allowing
machines to be persisted, locked and loaded from various backends.

# Key Interfaces

  - SessionStore: Responsible for persisting and loading session records.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
  - MachineLibrary: Lists and loads named machine configurations (e.g., from Loam).
  - MachineService: The driver-facing operations the HTTP and MCP adapters expose.
*/
package ports
