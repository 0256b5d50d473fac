// Package slots binds each featured slot to one stable widget instance.
//
// The binding lives in State/slots.json. The first request for a slot creates
// the instance; later requests return it. When the registry puts another
// design into the slot, the same instance is pointed at the new design so the
// widget on the home screen keeps its identity and any running animation.
package slots
