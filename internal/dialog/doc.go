// Package dialog decouples "something wants a dialog shown" from "something
// knows how to render dialogs".
//
// Application code opens dialogs through a Bus it was handed at start-up:
//
//	dialog.OpenKind(bus, dialog.Confirm, dialog.ConfirmContext{Message: "Delete?"})
//
// A single Host subscribes to the same bus and renders each request with the
// renderer registered for its kind in a Registry. The bus keeps no history:
// requests opened before anything subscribes are lost.
package dialog
