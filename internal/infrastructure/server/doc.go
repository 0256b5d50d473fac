// Package server hosts the HTTP bridge of the app process.
//
// It builds the gin router over an app.Container, registers the routes of
// the api/http package and runs the maintenance jobs while serving.
package server
