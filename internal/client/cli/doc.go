// Package cli provides the interactive dirkeeper console.
//
// The console is a read–eval–print loop over the session and directory
// services. Screens are addressed by path (/login, /users, /users/{id})
// and every directory screen passes the navigation guard first: an
// anonymous user is taken to the login prompt and, once signed in,
// returned to the screen they asked for.
//
// Commands:
//   - login / logout
//   - list [page], refresh, page N
//   - search [text], mode table|card
//   - show ID, create, edit ID, delete ID
//   - status, help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
