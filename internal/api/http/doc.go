// Package http exposes the widget services to the app process over HTTP.
//
// Handlers are thin: they validate path and body input, call one service
// and translate the result into JSON. Domain failures that the widget
// contract treats as recoverable come back as "success": false.
package http
