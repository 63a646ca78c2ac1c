// Package auth provides the session authentication middleware.
//
// Every request outside the public paths must carry a session cookie
// that resolves to a stored session. The referenced account is loaded
// again from the database on each request, so deactivating a user or
// changing their role takes effect immediately.
package auth
