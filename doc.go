// Package main provides the entry point for the internal service request
// tracking system. It runs a web server using the Fiber framework where
// authenticated staff submit IT service requests and administrators review
// them, update their status and configure notification settings. The
// application uses gorm for data persistence and sends a best-effort email
// notification whenever a new request is created.
package main
