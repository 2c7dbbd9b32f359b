// Package drag mediates drag-and-drop of tree nodes between groups.
//
// A drag capability (a sortable list widget, a TUI, a test) asks Options.Put
// whether a group accepts the dragged node, which is CanAccept at that
// group's depth. When a drop completes, the destination group calls
// Coordinator.Drop. The move is recorded in the Trap and a settle is
// queued on the Scheduler. On the owner's next tick the settle applies
// every pending move against one consistent snapshot of the tree, so a
// gesture produces exactly one change notification however many groups it
// touched.
package drag
