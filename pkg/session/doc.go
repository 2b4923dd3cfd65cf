/*
Package session hosts running machines for drivers such as the HTTP and MCP
adapters.

It keeps engines in a local memory cache, serializes access per session with
reference-counted locks (optionally backed by a distributed lock), and stores
just enough in a ports.SessionStore to rebuild any session by replay.
*/
package session
