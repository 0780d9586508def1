/*
Package session serializes access to per-session conversations.

Turns for one session run one at a time through a ref-counted in-process
mutex and, when configured, a distributed lock shared by all replicas.
*/
package session
