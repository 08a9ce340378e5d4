package domain

// EntityKind identifies the kind of entity a workbench resolution starts
// from.
type EntityKind string

const (
	KindBoard   EntityKind = "board"
	KindColumn  EntityKind = "column"
	KindTask    EntityKind = "task"
	KindTag     EntityKind = "tag"
	KindChat    EntityKind = "chat"
	KindMessage EntityKind = "message"
)

// WorkbenchResolver walks the parent chain from any entity to its owning
// workbench. A broken link anywhere in the chain yields ErrNotFound; the
// client-supplied workbench id is never trusted for nested resources.
type WorkbenchResolver interface {
	ResolveWorkbench(kind EntityKind, id int32) (int32, error)
}
