package rbac

const (
	PermDraftCreate  = "draft:create"
	PermDraftEdit    = "draft:edit"
	PermDraftView    = "draft:view"
	PermDraftViewAll = "draft:view-all" // other authors' drafts
	PermDraftSubmit  = "draft:submit"
	PermDraftDelete  = "draft:delete"
	PermEventsView   = "events:view"
)

// Default policy.
var RolePermissions = map[string][]string{
	"viewer": {
		PermDraftView,
		PermDraftViewAll,
	},
	"author": {
		PermDraftCreate,
		PermDraftEdit,
		PermDraftView,
		PermDraftSubmit,
		PermDraftDelete,
	},
	"admin": {
		"*", // everything
	},
}
