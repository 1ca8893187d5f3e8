// Package services orchestrates the console's side effects. Each service
// owns one state machine from the store package: it dispatches a Started
// event, performs the remote call without holding its lock, then
// dispatches the outcome. Failures become stored state and are also
// returned to the caller as *client.Error.
package services
