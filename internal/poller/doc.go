// Package poller harvests SMS messages from attached modems.
//
// A Supervisor reconciles the desired state (the registry's modem snapshot)
// against the actual state (running polling goroutines), starting a task for
// each newly attached modem and canceling the task of each detached one.
// Tasks run fully in parallel and share no mutable state beyond the store's
// uniqueness enforcement.
package poller
