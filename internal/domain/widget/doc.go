// Package widget implements the host callback contract.
//
// A host asks for a timeline per placement, renders its entries at their
// dates and asks again according to the refresh policy. Start requests
// arrive from the app and are forwarded to the owning host as reload signals.
package widget
